package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsStrongPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		want     bool
	}{
		{"all classes", "Secure#Pass1", true},
		{"too short", "Ab1!xyz", false},
		{"no upper", "secure#pass1", false},
		{"no lower", "SECURE#PASS1", false},
		{"no digit", "Secure#Pass", false},
		{"no special", "SecurePass12", false},
		{"unicode counts as special", "Secure€Pass1", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsStrongPassword(tt.password))
		})
	}
}

func TestIsCommonPassword(t *testing.T) {
	assert.True(t, IsCommonPassword("Password"))
	assert.True(t, IsCommonPassword("LETMEIN"))
	assert.False(t, IsCommonPassword("Secure#Pass1"))
}

func TestIsValidEmail(t *testing.T) {
	assert.True(t, IsValidEmail("ada@example.com"))
	assert.False(t, IsValidEmail("ada@example"))
	assert.False(t, IsValidEmail("ada example.com"))
	assert.False(t, IsValidEmail("@example.com"))
}

func TestRegisterRequestValidate(t *testing.T) {
	valid := RegisterRequest{Name: "Ada", Email: "ada@example.com", Password: "Secure#Pass1"}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name    string
		mutate  func(r *RegisterRequest)
		field   string
		message string
	}{
		{
			name:    "missing name",
			mutate:  func(r *RegisterRequest) { r.Name = "" },
			field:   "Name",
			message: "Name is required",
		},
		{
			name:    "blank name",
			mutate:  func(r *RegisterRequest) { r.Name = " \t " },
			field:   "Name",
			message: "Name is required",
		},
		{
			name:    "bad email",
			mutate:  func(r *RegisterRequest) { r.Email = "ada@" },
			field:   "Email",
			message: "Please enter a valid email address",
		},
		{
			name:    "weak password",
			mutate:  func(r *RegisterRequest) { r.Password = "abcdefgh" },
			field:   "Password",
			message: "Password must contain at least 8 characters with uppercase, lowercase, number, and special character",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)

			err := req.Validate()
			require.Error(t, err)

			resp := CreateValidationErrorResponse(err)
			assert.Equal(t, 400, resp.Code)
			assert.Equal(t, "Validation failed", resp.Message)
			require.NotEmpty(t, resp.Errors)
			assert.Equal(t, tt.field, resp.Errors[0].Field)
			assert.Equal(t, tt.message, resp.Errors[0].Message)
		})
	}
}

func TestStartTestRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     StartTestRequest
		wantErr bool
	}{
		{"minimal", StartTestRequest{Type: "mcq", Domain: "tech", Level: "beginner"}, false},
		{"with count", StartTestRequest{Type: "coding", Domain: "design", Level: "pro", Count: 20}, false},
		{"count too high", StartTestRequest{Type: "mcq", Domain: "tech", Level: "beginner", Count: 21}, true},
		{"unknown domain", StartTestRequest{Type: "mcq", Domain: "law", Level: "beginner"}, true},
		{"unknown type", StartTestRequest{Type: "essay", Domain: "tech", Level: "beginner"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSubmitResultRequestValidate(t *testing.T) {
	req := SubmitResultRequest{
		TestType:       "mcq",
		Domain:         "tech",
		Level:          "beginner",
		Score:          80,
		TotalQuestions: 5,
		CorrectAnswers: 4,
	}
	require.NoError(t, req.Validate())

	req.CorrectAnswers = 6
	err := req.Validate()
	require.Error(t, err)
	errs := FormatValidationErrors(err)
	require.Len(t, errs, 1)
	assert.Equal(t, "CorrectAnswers", errs[0].Field)
	assert.Equal(t, "CorrectAnswers is invalid", errs[0].Message)
}

func TestSendMessageRequestValidate(t *testing.T) {
	assert.Error(t, SendMessageRequest{}.Validate())
	assert.NoError(t, SendMessageRequest{Content: "Hi"}.Validate())

	long := make([]byte, 2001)
	for i := range long {
		long[i] = 'a'
	}
	err := SendMessageRequest{Content: string(long)}.Validate()
	require.Error(t, err)
	assert.Equal(t, "Content must be at most 2000 characters", FormatValidationErrors(err)[0].Message)
}

func TestFormatValidationErrorsIgnoresOtherErrors(t *testing.T) {
	assert.Empty(t, FormatValidationErrors(assert.AnError))
}
