package audit

import "strings"

// ActionResource holds action and resource derived from an HTTP route.
type ActionResource struct {
	Action   string
	Resource string
}

// Routes with audit names that do not follow the generic verb/resource pattern.
const (
	routeLogin    = "POST /api/employees/login"
	routeLogout   = "DELETE /api/employees/logout"
	routeRegister = "POST /api/employees/register"
	routePassword = "PUT /api/employees/password"
	routeEmail    = "PUT /api/employees/email"
	routeRole     = "PUT /api/employees/role"
	routeApprove  = "PUT /api/tickets/approve"
	routeDeny     = "PUT /api/tickets/deny"
)

// ParseRoute returns action and resource for an HTTP method and path
// (e.g. PUT /api/tickets/approve -> ticket_approved on resource "ticket").
// Unmapped routes fall back to a verb derived from the method and a resource
// derived from the first path segment under /api, with the trailing "s"
// trimmed (tickets -> ticket).
func ParseRoute(method, path string) ActionResource {
	switch method + " " + path {
	case routeLogin:
		return ActionResource{Action: "login", Resource: "session"}
	case routeLogout:
		return ActionResource{Action: "logout", Resource: "session"}
	case routeRegister:
		return ActionResource{Action: "register", Resource: "employee"}
	case routePassword:
		return ActionResource{Action: "password_changed", Resource: "employee"}
	case routeEmail:
		return ActionResource{Action: "email_changed", Resource: "employee"}
	case routeRole:
		return ActionResource{Action: "role_changed", Resource: "employee"}
	case routeApprove:
		return ActionResource{Action: "ticket_approved", Resource: "ticket"}
	case routeDeny:
		return ActionResource{Action: "ticket_denied", Resource: "ticket"}
	}
	return ActionResource{Action: methodToAction(method), Resource: pathToResource(path)}
}

func pathToResource(path string) string {
	rest, ok := strings.CutPrefix(path, "/api/")
	if !ok {
		return "unknown"
	}
	segment, _, _ := strings.Cut(rest, "/")
	if segment == "" {
		return "unknown"
	}
	return strings.TrimSuffix(segment, "s")
}

func methodToAction(method string) string {
	switch method {
	case "GET":
		return "get"
	case "POST":
		return "create"
	case "PUT", "PATCH":
		return "update"
	case "DELETE":
		return "delete"
	default:
		return strings.ToLower(method)
	}
}
