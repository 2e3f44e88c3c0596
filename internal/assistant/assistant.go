// Package assistant drafts senior-friendly job posting text from structured
// input. It is keyword templating only; nothing is learned or remote.
package assistant

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"senior-house/internal/models"
)

// PayType is the unit a wage amount is quoted in.
type PayType string

const (
	PayHourly     PayType = "hourly"
	PayDaily      PayType = "daily"
	PayMonthly    PayType = "monthly"
	PayYearly     PayType = "yearly"
	PayNegotiable PayType = "negotiable"
)

var payUnits = map[PayType]string{
	PayHourly:     "시급",
	PayDaily:      "일급",
	PayMonthly:    "월급",
	PayYearly:     "연봉",
	PayNegotiable: "협의",
}

// Pay is the wage part of a draft request.
type Pay struct {
	Type   PayType `json:"type"`
	Amount int     `json:"amount"`
}

// DraftRequest is the structured input of the writer.
type DraftRequest struct {
	Kind             models.PostingKind `json:"job_type"`
	Title            string             `json:"title"`
	EmploymentType   string             `json:"employment_type"`
	Location         string             `json:"location"`
	Duties           string             `json:"duties"`
	Company          string             `json:"company"`
	Pay              *Pay               `json:"pay"`
	Salary           string             `json:"salary"`
	Days             string             `json:"days"`
	Start            string             `json:"start"`
	End              string             `json:"end"`
	WorkTime         string             `json:"work_time"`
	Requirements     string             `json:"requirements"`
	Benefits         string             `json:"benefits"`
	Apply            string             `json:"apply"`
	Deadline         string             `json:"deadline"`
	RecruitmentCount int                `json:"recruitment_count"`
	SeniorFriendly   bool               `json:"senior_friendly"`
	EasyWork         bool               `json:"easy_work"`
	TrainingProvided bool               `json:"training_provided"`
	FlexibleTime     bool               `json:"flexible_time"`
	Tone             string             `json:"tone"`
}

// Draft is the generated posting text.
type Draft struct {
	Title          string    `json:"title"`
	Summary        string    `json:"summary"`
	Description    string    `json:"description"`
	Hashtags       []string  `json:"hashtags"`
	SeniorFriendly bool      `json:"senior_friendly"`
	Tone           string    `json:"tone"`
	WordCount      int       `json:"word_count"`
	GeneratedAt    time.Time `json:"generated_at"`
}

var clock = regexp.MustCompile(`^([01]?\d|2[0-3]):[0-5]\d$`)

var printer = message.NewPrinter(language.Korean)

// normalize trims input, checks required fields and drops malformed optional values.
func normalize(req DraftRequest) (DraftRequest, error) {
	req.Title = strings.TrimSpace(req.Title)
	req.EmploymentType = strings.TrimSpace(req.EmploymentType)
	req.Location = strings.TrimSpace(req.Location)
	req.Duties = strings.TrimSpace(req.Duties)
	required := []struct{ name, value string }{
		{"title", req.Title},
		{"employment_type", req.EmploymentType},
		{"location", req.Location},
		{"duties", req.Duties},
	}
	for _, f := range required {
		if f.value == "" {
			return req, models.Validationf("필수 필드 누락: %s", f.name)
		}
	}
	if req.Kind == "" {
		req.Kind = models.PostingCompany
	}
	if req.Pay != nil {
		if _, ok := payUnits[req.Pay.Type]; !ok {
			req.Pay.Type = PayNegotiable
		}
		if req.Pay.Amount < 0 {
			req.Pay.Amount = 0
		}
	}
	if !clock.MatchString(req.Start) {
		req.Start = ""
	}
	if !clock.MatchString(req.End) {
		req.End = ""
	}
	if req.Tone == "" {
		req.Tone = "친절"
	}
	return req, nil
}

// Generate builds title, summary, description and hashtags for req and runs
// the result through the discrimination filter.
func Generate(req DraftRequest) (Draft, error) {
	req, err := normalize(req)
	if err != nil {
		return Draft{}, err
	}

	var d Draft
	if req.Kind == models.PostingGeneral {
		d = Draft{
			Title:       generalTitle(req),
			Summary:     generalSummary(req),
			Description: generalDescription(req),
			Hashtags:    hashtags(req, true),
		}
	} else {
		d = Draft{
			Title:       companyTitle(req),
			Summary:     companySummary(req),
			Description: companyDescription(req),
			Hashtags:    hashtags(req, false),
		}
	}

	d.Title = Filter(d.Title)
	d.Summary = Filter(d.Summary)
	d.Description = Filter(d.Description)
	d.SeniorFriendly = req.SeniorFriendly
	d.Tone = req.Tone
	d.WordCount = utf8.RuneCountInString(d.Description)
	d.GeneratedAt = time.Now()
	return d, nil
}

func payText(p *Pay) string {
	if p == nil || p.Amount == 0 {
		return ""
	}
	return printer.Sprintf("%s %d원", payUnits[p.Type], p.Amount)
}

func firstWord(s string) string {
	if fields := strings.Fields(s); len(fields) > 0 {
		return fields[0]
	}
	return ""
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

func bullets(items []string) string {
	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = "• " + item
	}
	return strings.Join(lines, "\n")
}

func titlePrefix(req DraftRequest) string {
	if loc := firstWord(req.Location); loc != "" {
		return fmt.Sprintf("[%s] %s %s", loc, req.Title, req.EmploymentType)
	}
	return req.Title + " " + req.EmploymentType
}

func companyTitle(req DraftRequest) string {
	title := titlePrefix(req)
	if req.Pay != nil && req.Pay.Type != PayNegotiable {
		if pay := payText(req.Pay); pay != "" {
			title += "(" + pay + ")"
		}
	}
	return title
}

func generalTitle(req DraftRequest) string {
	title := titlePrefix(req)
	switch {
	case req.Pay != nil && req.Pay.Type != PayNegotiable && req.Pay.Amount > 0:
		title += " (" + payText(req.Pay) + ")"
	case req.Salary != "":
		title += " (" + req.Salary + ")"
	}
	if req.SeniorFriendly {
		switch {
		case req.EasyWork:
			title += " - 쉬운 업무"
		case req.TrainingProvided:
			title += " - 교육 제공"
		default:
			title += " - 시니어 환영"
		}
	}
	return title
}

func scheduleParts(req DraftRequest, general bool) []string {
	var parts []string
	if req.Days != "" {
		parts = append(parts, req.Days)
	}
	switch {
	case req.Start != "" && req.End != "":
		parts = append(parts, req.Start+"~"+req.End)
	case general && req.WorkTime != "":
		parts = append(parts, req.WorkTime)
	}
	switch pay := payText(req.Pay); {
	case pay != "":
		parts = append(parts, pay)
	case general && req.Salary != "":
		parts = append(parts, req.Salary)
	}
	return parts
}

func companySummary(req DraftRequest) string {
	lines := []string{"업무내용: " + truncate(req.Duties, 50)}
	if parts := scheduleParts(req, false); len(parts) > 0 {
		lines = append(lines, "근무조건: "+strings.Join(parts, " / "))
	}
	var reqs []string
	if req.Requirements != "" {
		reqs = append(reqs, req.Requirements)
	}
	if req.TrainingProvided {
		reqs = append(reqs, "교육제공")
	}
	if req.Benefits != "" {
		reqs = append(reqs, truncate(req.Benefits, 30))
	}
	lines = append(lines, requirementLine(reqs))
	return strings.Join(lines, "\n")
}

func generalSummary(req DraftRequest) string {
	lines := []string{"업무내용: " + req.Duties}
	if parts := scheduleParts(req, true); len(parts) > 0 {
		lines = append(lines, "근무조건: "+strings.Join(parts, " / "))
	}
	var reqs []string
	if req.Requirements != "" {
		reqs = append(reqs, req.Requirements)
	}
	if req.SeniorFriendly || req.TrainingProvided {
		reqs = append(reqs, "경력무관")
	}
	if req.TrainingProvided {
		reqs = append(reqs, "교육제공")
	}
	lines = append(lines, requirementLine(reqs))
	return strings.Join(lines, "\n")
}

func requirementLine(reqs []string) string {
	if len(reqs) == 0 {
		return "자격요건: 성실하고 책임감 있는 분"
	}
	return "자격요건: " + strings.Join(reqs, " / ")
}

func conditions(req DraftRequest, general bool) []string {
	conds := []string{"고용형태: " + req.EmploymentType, "근무지: " + req.Location}
	if req.Days != "" {
		conds = append(conds, "근무요일: "+req.Days)
	}
	switch {
	case req.Start != "" && req.End != "":
		if general {
			conds = append(conds, "근무시간: "+req.Start+" ~ "+req.End)
		} else {
			conds = append(conds, "근무시간: "+req.Start+"~"+req.End)
		}
	case general && req.WorkTime != "":
		conds = append(conds, "근무시간: "+req.WorkTime)
	}
	switch pay := payText(req.Pay); {
	case pay != "":
		conds = append(conds, "급여: "+pay)
	case req.Pay != nil && req.Pay.Type == PayNegotiable:
		conds = append(conds, "급여: 면접 시 협의")
	case general && req.Salary != "":
		conds = append(conds, "급여: "+req.Salary)
	}
	if general && req.RecruitmentCount > 0 {
		conds = append(conds, fmt.Sprintf("모집인원: %d명", req.RecruitmentCount))
	}
	return conds
}

func closing(req DraftRequest) []string {
	apply := req.Apply
	if apply == "" {
		apply = "플랫폼 내 지원"
	}
	deadline := req.Deadline
	if deadline == "" {
		deadline = "채용 시 마감"
	}
	return []string{"지원방법: " + apply, "마감일: " + deadline}
}

func companyDescription(req DraftRequest) string {
	sections := []string{
		"주요업무: " + req.Duties,
		"근무조건:\n" + bullets(conditions(req, false)),
	}
	var reqs []string
	if req.Requirements != "" {
		reqs = append(reqs, req.Requirements)
	}
	if req.TrainingProvided {
		reqs = append(reqs, "경력무관 (교육제공)")
	}
	if len(reqs) > 0 {
		sections = append(sections, "자격요건:\n"+bullets(reqs))
	}
	if benefits := baseBenefits(req); len(benefits) > 0 {
		sections = append(sections, "복리후생:\n"+bullets(benefits))
	}
	sections = append(sections, closing(req)...)
	return strings.Join(sections, "\n\n")
}

// dutyExtras adds typical task lines for common senior jobs.
var dutyExtras = []struct {
	words   []string
	extras  []string
	benefit string
}{
	{[]string{"서빙", "카페", "음료"}, []string{"고객 응대 및 서비스 제공", "음료 제조 및 매장 관리", "기본 교육 제공으로 처음이어도 가능"}, "직원 음료 할인"},
	{[]string{"계산", "마트", "편의점"}, []string{"계산 업무 및 고객 응대", "상품 진열 및 매장 정리", "POS 시스템 사용법 교육 제공"}, "직원 구매 할인"},
	{[]string{"청소", "정리"}, []string{"시설 청소 및 환경 정리", "안전하고 체계적인 작업 환경", "개인 페이스에 맞춘 업무 진행"}, ""},
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

func generalDescription(req DraftRequest) string {
	extras := []string{"체계적인 업무 교육 제공", "안정적인 근무 환경"}
	extraBenefit := ""
	for _, d := range dutyExtras {
		if containsAny(req.Duties, d.words) {
			extras, extraBenefit = d.extras, d.benefit
			break
		}
	}

	reqs := []string{}
	if req.Requirements != "" {
		reqs = append(reqs, req.Requirements)
	}
	reqs = append(reqs, "성실하고 책임감 있는 분", "원활한 의사소통 가능한 분")
	if req.SeniorFriendly || req.TrainingProvided {
		reqs = append(reqs, "경력 무관 (신입 환영)")
	}

	benefits := baseBenefits(req)
	if extraBenefit != "" {
		benefits = append(benefits, extraBenefit)
	}

	sections := []string{
		"주요 업무:\n" + req.Duties + "\n" + bullets(extras),
		"근무조건:\n" + bullets(conditions(req, true)),
		"자격요건:\n" + bullets(reqs),
	}
	if len(benefits) > 0 {
		sections = append(sections, "복리후생:\n"+bullets(benefits))
	}
	sections = append(sections, closing(req)...)
	return strings.Join(sections, "\n\n")
}

func baseBenefits(req DraftRequest) []string {
	var benefits []string
	if req.Benefits != "" {
		benefits = append(benefits, req.Benefits)
	}
	if req.TrainingProvided {
		benefits = append(benefits, "체계적인 업무 교육")
	}
	if req.FlexibleTime {
		benefits = append(benefits, "근무시간 조정 가능")
	}
	return benefits
}

const maxHashtags = 5

func hashtags(req DraftRequest, general bool) []string {
	var tags []string
	for _, w := range strings.Fields(req.Title) {
		if utf8.RuneCountInString(w) > 1 {
			tags = append(tags, "#"+w)
		}
	}
	tags = append(tags, "#"+strings.ReplaceAll(req.EmploymentType, " ", ""))
	loc := strings.Fields(req.Location)
	if len(loc) > 2 {
		loc = loc[:2]
	}
	for _, part := range loc {
		if utf8.RuneCountInString(part) > 1 {
			tags = append(tags, "#"+part)
		}
	}
	if general && (req.SeniorFriendly || req.TrainingProvided) {
		tags = append(tags, "#경력무관")
	}
	if req.TrainingProvided {
		tags = append(tags, "#교육제공")
	}
	if req.FlexibleTime {
		tags = append(tags, "#시간조정가능")
	}

	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, maxHashtags)
	for _, tag := range tags {
		if seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
		if len(out) == maxHashtags {
			break
		}
	}
	return out
}

// Fallback is a minimal posting used when the request cannot be drafted.
func Fallback(req DraftRequest) string {
	or := func(v, def string) string {
		if strings.TrimSpace(v) == "" {
			return def
		}
		return v
	}
	title := or(req.Title, "채용공고")
	return fmt.Sprintf("%s 채용\n\n%s에서 %s 직무를 담당하실 분을 모집합니다.\n\n근무지: %s\n고용형태: %s\n\n많은 지원 바랍니다.",
		title, or(req.Company, "회사명"), title, or(req.Location, "근무지"), or(req.EmploymentType, "정규직"))
}
