package assistant

import (
	"regexp"
	"sort"
	"strings"
)

// Category groups discriminatory keywords.
type Category string

const (
	CategoryAge        Category = "나이"
	CategoryGender     Category = "성별"
	CategoryAppearance Category = "외모"
	CategoryOrigin     Category = "출신"
)

var discriminatory = map[Category][]string{
	CategoryAge:        {"젊은", "청년", "20대", "30대", "40대", "50대", "60대", "나이", "연령"},
	CategoryGender:     {"남자", "여자", "남성", "여성", "미혼", "기혼", "미스", "미세스"},
	CategoryAppearance: {"키", "몸무게", "외모", "미모", "잘생긴", "예쁜", "날씬한"},
	CategoryOrigin:     {"지역", "학벌", "출신대", "명문대", "지방대"},
}

// seniorFriendly rewrites phrases that read as excluding older applicants.
var seniorFriendly = strings.NewReplacer(
	"체력이 좋은", "건강하신",
	"빠른 업무", "꼼꼼한 업무",
	"신속한", "정확한",
	"젊은 감각", "풍부한 경험",
	"트렌디한", "안정적인",
)

// preferencePhrase matches "<keyword> ... 우대/선호/환영" style requirements on one line.
func preferencePhrase(keyword string) *regexp.Regexp {
	return regexp.MustCompile(regexp.QuoteMeta(keyword) + `[^\n]*?(우대|우선|선호|환영)`)
}

var (
	agePatterns    = compile(discriminatory[CategoryAge])
	genderPatterns = compile(discriminatory[CategoryGender])
)

func compile(keywords []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(keywords))
	for i, k := range keywords {
		out[i] = preferencePhrase(k)
	}
	return out
}

// Filter replaces age and gender preferences with neutral wording and applies
// the senior friendly phrase table.
func Filter(text string) string {
	text = seniorFriendly.Replace(text)
	for _, re := range agePatterns {
		text = re.ReplaceAllString(text, "경력무관")
	}
	for _, re := range genderPatterns {
		text = re.ReplaceAllString(text, "성별무관")
	}
	return text
}

// Flag is one discriminatory keyword found in a text.
type Flag struct {
	Category Category `json:"category"`
	Keyword  string   `json:"keyword"`
}

// Validate lists the discriminatory keywords present in text, ordered by
// category then keyword.
func Validate(text string) []Flag {
	flags := []Flag{}
	for category, keywords := range discriminatory {
		for _, k := range keywords {
			if strings.Contains(text, k) {
				flags = append(flags, Flag{Category: category, Keyword: k})
			}
		}
	}
	sort.Slice(flags, func(i, j int) bool {
		if flags[i].Category != flags[j].Category {
			return flags[i].Category < flags[j].Category
		}
		return flags[i].Keyword < flags[j].Keyword
	})
	return flags
}
