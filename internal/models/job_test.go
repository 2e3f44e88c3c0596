package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestPostingRequestValidate(t *testing.T) {
	cases := []struct {
		name string
		req  PostingRequest
		ok   bool
	}{
		{"general ok", PostingRequest{Kind: PostingGeneral, General: &GeneralPosting{Title: "텃밭 관리", Description: "주 2회", Region: "서울"}}, true},
		{"general missing region", PostingRequest{Kind: PostingGeneral, General: &GeneralPosting{Title: "t", Description: "d"}}, false},
		{"general with company body", PostingRequest{Kind: PostingGeneral, General: &GeneralPosting{Title: "t", Description: "d", Region: "r"}, Company: &CompanyPosting{}}, false},
		{"company ok", PostingRequest{Kind: PostingCompany, Company: &CompanyPosting{Title: "경비", Company: "ACME", Description: "야간"}}, true},
		{"company missing company", PostingRequest{Kind: PostingCompany, Company: &CompanyPosting{Title: "t", Description: "d"}}, false},
		{"company bad date", PostingRequest{Kind: PostingCompany, Company: &CompanyPosting{Title: "t", Company: "c", Description: "d", RecruitmentStart: strPtr("2024/01/01")}}, false},
		{"company end before start", PostingRequest{Kind: PostingCompany, Company: &CompanyPosting{Title: "t", Company: "c", Description: "d", RecruitmentStart: strPtr("2024-02-01"), RecruitmentEnd: strPtr("2024-01-01")}}, false},
		{"bad time", PostingRequest{Kind: PostingGeneral, General: &GeneralPosting{Title: "t", Description: "d", Region: "r", Schedule: Schedule{StartTime: strPtr("25:00")}}}, false},
		{"unknown kind", PostingRequest{Kind: "other"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.req.Validate()
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrValidation)
			}
		})
	}
}

func TestPostingRequestApplyFullTimeForcesLongPeriod(t *testing.T) {
	req := PostingRequest{Kind: PostingCompany, Company: &CompanyPosting{
		Title: "조리원", Company: "급식센터", Description: "평일 근무",
		RecruitmentType: strPtr(RecruitmentFullTime), WorkPeriod: strPtr("단기"),
		RecruitmentStart: strPtr("2024-03-01"),
	}}
	require.NoError(t, req.Validate())

	var post JobPost
	req.Apply(&post, User{ID: 1, Nickname: "center"})
	require.NotNil(t, post.WorkPeriod)
	assert.Equal(t, WorkPeriodLong, *post.WorkPeriod)
	assert.Equal(t, "급식센터", post.Company)
	require.NotNil(t, post.RecruitmentStart)
	assert.Equal(t, 2024, post.RecruitmentStart.Year())
}

func TestGeneralPostingUsesAuthorNickname(t *testing.T) {
	req := PostingRequest{Kind: PostingGeneral, General: &GeneralPosting{Title: " 말벗 ", Description: "d", Region: "부산"}}
	var post JobPost
	req.Apply(&post, User{ID: 2, Nickname: "김씨"})
	assert.Equal(t, "김씨", post.Company)
	assert.Equal(t, "말벗", post.Title)
	assert.Equal(t, PostingGeneral, post.Kind)
}

func TestJobFilterNormalize(t *testing.T) {
	f := JobFilter{Page: 0, PerPage: 500}.Normalize()
	assert.Equal(t, 1, f.Page)
	assert.Equal(t, MaxPerPage, f.PerPage)
	assert.Equal(t, SortLatest, f.Sort)
	assert.Equal(t, DefaultPerPage, JobFilter{}.Normalize().PerPage)
	assert.Equal(t, SortPopular, ParseJobSort("popular"))
	assert.Equal(t, SortLatest, ParseJobSort("random"))
}
