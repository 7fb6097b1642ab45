package authhandler

import "testing"

func TestValidateLogin(t *testing.T) {
	tests := []struct {
		name    string
		payload loginRequest
		fields  []string
	}{
		{
			name:    "valid",
			payload: loginRequest{Email: "ops@example.com", Password: "secret"},
		},
		{
			name:    "missing both",
			payload: loginRequest{},
			fields:  []string{"email", "password"},
		},
		{
			name:    "not an email",
			payload: loginRequest{Email: "ops", Password: "secret"},
			fields:  []string{"email"},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			issues := validateLogin(tc.payload)
			if len(issues) != len(tc.fields) {
				t.Fatalf("expected %d issues, got %v", len(tc.fields), issues)
			}
			for i, field := range tc.fields {
				if issues[i].Field != field {
					t.Fatalf("expected issue on %s, got %s", field, issues[i].Field)
				}
			}
		})
	}
}
