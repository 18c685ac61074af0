package responder

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// koreanTeamNames maps Korean Premier League team spellings, including
// common short forms, to the English names the data providers expect.
var koreanTeamNames = map[string]string{
	"아스널":       "Arsenal",
	"아스날":       "Arsenal",
	"아스톤 빌라":    "Aston Villa",
	"애스턴 빌라":    "Aston Villa",
	"본머스":       "Bournemouth",
	"브렌트포드":     "Brentford",
	"브라이튼":      "Brighton",
	"번리":        "Burnley",
	"첼시":        "Chelsea",
	"크리스탈 팰리스":  "Crystal Palace",
	"크리스탈 팔라스":  "Crystal Palace",
	"에버튼":       "Everton",
	"에버턴":       "Everton",
	"풀럼":        "Fulham",
	"풀햄":        "Fulham",
	"리버풀":       "Liverpool",
	"루턴":        "Luton",
	"루턴 타운":     "Luton",
	"맨체스터 시티":   "Manchester City",
	"맨시티":       "Manchester City",
	"맨체스터 유나이티드": "Manchester United",
	"맨유":        "Manchester United",
	"뉴캐슬":       "Newcastle",
	"뉴캐슬 유나이티드": "Newcastle",
	"노팅엄":       "Nottingham Forest",
	"노팅엄 포레스트":  "Nottingham Forest",
	"셰필드":       "Sheffield Utd",
	"셰필드 유나이티드": "Sheffield Utd",
	"토트넘":       "Tottenham",
	"토트넘 홋스퍼":   "Tottenham",
	"웨스트햄":      "West Ham",
	"울버햄튼":      "Wolves",
	"울버햄프턴":     "Wolves",
	"울브스":       "Wolves",
}

// englishTeamName resolves a team reference, Korean or English, to the
// provider's English name. Returns "" when the reference is unknown.
func englishTeamName(name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return ""
	}
	if english, ok := koreanTeamNames[trimmed]; ok {
		return english
	}
	// Accept an English name that already matches a known team.
	lower := strings.ToLower(trimmed)
	for _, english := range koreanTeamNames {
		if strings.ToLower(english) == lower {
			return english
		}
	}
	return ""
}

var (
	isoDatePattern    = regexp.MustCompile(`(\d{4})[-./](\d{1,2})[-./](\d{1,2})`)
	koreanDatePattern = regexp.MustCompile(`(?:(\d{4})년\s*)?(\d{1,2})월\s*(\d{1,2})일`)
)

// parseMatchDate resolves a date reference found in a query, relative
// words included, against the given reference time. Returns zero time
// when nothing resolves.
func parseMatchDate(text string, now time.Time) time.Time {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	switch {
	case strings.Contains(text, "모레"):
		return today.AddDate(0, 0, 2)
	case strings.Contains(text, "내일"):
		return today.AddDate(0, 0, 1)
	case strings.Contains(text, "오늘"):
		return today
	}

	if m := isoDatePattern.FindStringSubmatch(text); m != nil {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])
		return dateOrZero(year, month, day, now.Location())
	}

	if m := koreanDatePattern.FindStringSubmatch(text); m != nil {
		year := now.Year()
		if m[1] != "" {
			year, _ = strconv.Atoi(m[1])
		}
		month, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])
		d := dateOrZero(year, month, day, now.Location())
		// A bare month/day in the past means the upcoming occurrence.
		if !d.IsZero() && m[1] == "" && d.Before(today) {
			d = d.AddDate(1, 0, 0)
		}
		return d
	}

	return time.Time{}
}

func dateOrZero(year, month, day int, loc *time.Location) time.Time {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}
	}
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, loc)
	// Reject rollover like Feb 30 -> Mar 2.
	if int(d.Month()) != month || d.Day() != day {
		return time.Time{}
	}
	return d
}
