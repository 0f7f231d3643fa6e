package analyses

import "cvai-core/internal/models"

type reviewRequest struct {
	CVID string `json:"cvId" form:"cvId"`
}

type jobMatchRequest struct {
	CVID           string `json:"cvId"`
	JobDescription string `json:"jobDescription"`
}

type letterDraftRequest struct {
	CVID           string `json:"cvId"`
	Name           string `json:"name"`
	JobTitle       string `json:"jobTitle"`
	CompanyName    string `json:"companyName"`
	JobDescription string `json:"jobDescription"`
}

func (r letterDraftRequest) fields() LetterFields {
	return LetterFields{
		CVID:           r.CVID,
		Name:           r.Name,
		JobTitle:       r.JobTitle,
		CompanyName:    r.CompanyName,
		JobDescription: r.JobDescription,
	}
}

type letterSaveRequest struct {
	ID             string `json:"id"`
	UserID         string `json:"userId"`
	CVID           string `json:"cvId"`
	Name           string `json:"name"`
	JobTitle       string `json:"jobTitle"`
	CompanyName    string `json:"companyName"`
	JobDescription string `json:"jobDescription"`
	Content        string `json:"content"`
}

func (r letterSaveRequest) letter() models.CoverLetter {
	return models.CoverLetter{
		ID:             r.ID,
		UserID:         r.UserID,
		CVID:           r.CVID,
		Name:           r.Name,
		JobTitle:       r.JobTitle,
		CompanyName:    r.CompanyName,
		JobDescription: r.JobDescription,
		Content:        r.Content,
	}
}
