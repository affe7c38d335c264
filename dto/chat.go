package dto

type SendMessageRequest struct {
	Content string `json:"content" validate:"required,max=2000" example:"How do I answer 'tell me about yourself'?"`
	Context string `json:"context,omitempty" validate:"max=2000"`
}

func (r SendMessageRequest) Validate() error {
	return GetValidator().Struct(r)
}

type ChatMessageResponse struct {
	ID        string `json:"id"`
	Content   string `json:"content"`
	IsUser    bool   `json:"is_user"`
	Timestamp string `json:"timestamp"`
	Emotion   string `json:"emotion,omitempty"`
}

type SendMessageResponse struct {
	UserMessage ChatMessageResponse `json:"user_message"`
	Reply       ChatMessageResponse `json:"reply"`
}
