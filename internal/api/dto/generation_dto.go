package dto

// GenerateArticleRequest payload.
type GenerateArticleRequest struct {
	Prompt string `json:"prompt" form:"prompt"`
	Length int    `json:"length" form:"length"`
}

// GenerateBlogTitleRequest payload.
type GenerateBlogTitleRequest struct {
	Prompt string `json:"prompt" form:"prompt"`
}

// GenerateImageRequest payload.
type GenerateImageRequest struct {
	Prompt  string `json:"prompt" form:"prompt"`
	Publish bool   `json:"publish" form:"publish"`
}

// Response is the envelope every endpoint answers with.
type Response struct {
	Success bool   `json:"success"`
	Content string `json:"content,omitempty"`
	Message string `json:"message,omitempty"`
}
