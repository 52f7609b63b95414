package audit

import "testing"

func TestParseRoute(t *testing.T) {
	tests := []struct {
		method, path string
		want         ActionResource
	}{
		{"POST", "/api/employees/login", ActionResource{"login", "session"}},
		{"DELETE", "/api/employees/logout", ActionResource{"logout", "session"}},
		{"POST", "/api/employees/register", ActionResource{"register", "employee"}},
		{"PUT", "/api/employees/password", ActionResource{"password_changed", "employee"}},
		{"PUT", "/api/employees/email", ActionResource{"email_changed", "employee"}},
		{"PUT", "/api/employees/role", ActionResource{"role_changed", "employee"}},
		{"PUT", "/api/tickets/approve", ActionResource{"ticket_approved", "ticket"}},
		{"PUT", "/api/tickets/deny", ActionResource{"ticket_denied", "ticket"}},
		{"POST", "/api/tickets", ActionResource{"create", "ticket"}},
		{"GET", "/api/tickets/pending", ActionResource{"get", "ticket"}},
		{"GET", "/api/employees/tickets", ActionResource{"get", "employee"}},
		{"GET", "/healthz", ActionResource{"get", "unknown"}},
	}
	for _, tt := range tests {
		got := ParseRoute(tt.method, tt.path)
		if got != tt.want {
			t.Errorf("ParseRoute(%s %s) = %+v, want %+v", tt.method, tt.path, got, tt.want)
		}
	}
}
