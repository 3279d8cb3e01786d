package http

import (
	"net/http"
	"strings"
)

type RouterConfig struct {
	Auth        *AuthHandler
	Users       *UserHandler
	Workspaces  *WorkspaceHandler
	Invitations *InvitationHandler
	Rooms       *RoomHandler
	Bookings    *BookingHandler

	// Session wraps every route that requires an authenticated principal.
	// Registration, email verification, and login stay public.
	Session    func(http.Handler) http.Handler
	Middleware []func(http.Handler) http.Handler
}

func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	protect := func(h http.HandlerFunc) http.Handler {
		if cfg.Session == nil {
			return h
		}
		return cfg.Session(h)
	}

	if cfg.Users != nil {
		mux.HandleFunc("/users", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			cfg.Users.Register(w, r)
		})
		mux.HandleFunc("/users/verify-email", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			cfg.Users.VerifyEmail(w, r)
		})
	}

	if cfg.Auth != nil {
		mux.HandleFunc("/sessions", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			cfg.Auth.CreateSession(w, r)
		})
		mux.HandleFunc("/sessions/current", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodDelete {
				methodNotAllowed(w, http.MethodDelete)
				return
			}
			cfg.Auth.DeleteCurrentSession(w, r)
		})
	}

	if cfg.Workspaces != nil {
		mux.Handle("/workspaces", protect(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				cfg.Workspaces.List(w, r)
			case http.MethodPost:
				cfg.Workspaces.Create(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPost)
			}
		}))
		mux.Handle("/workspaces/", protect(func(w http.ResponseWriter, r *http.Request) {
			routeWorkspaceSubtree(cfg, w, r)
		}))
	}

	var handler http.Handler = mux
	if len(cfg.Middleware) > 0 {
		for i := len(cfg.Middleware) - 1; i >= 0; i-- {
			if cfg.Middleware[i] != nil {
				handler = cfg.Middleware[i](handler)
			}
		}
	}

	return handler
}

// routeWorkspaceSubtree dispatches everything below /workspaces/. The
// literal "invitations" segment is claimed by invitation responses before
// it can be mistaken for a workspace identifier.
func routeWorkspaceSubtree(cfg RouterConfig, w http.ResponseWriter, r *http.Request) {
	segments := splitPath(strings.TrimPrefix(r.URL.Path, "/workspaces/"))
	if len(segments) == 0 {
		http.NotFound(w, r)
		return
	}

	if segments[0] == "invitations" {
		if cfg.Invitations == nil || len(segments) != 3 || segments[1] == "" {
			http.NotFound(w, r)
			return
		}
		if r.Method != http.MethodPost {
			methodNotAllowed(w, http.MethodPost)
			return
		}
		r = r.WithContext(ContextWithInvitationID(r.Context(), segments[1]))
		switch segments[2] {
		case "accept":
			cfg.Invitations.Accept(w, r)
		case "reject":
			cfg.Invitations.Reject(w, r)
		default:
			http.NotFound(w, r)
		}
		return
	}

	workspaceID := segments[0]
	r = r.WithContext(ContextWithWorkspaceID(r.Context(), workspaceID))

	if len(segments) == 1 {
		switch r.Method {
		case http.MethodGet:
			cfg.Workspaces.Get(w, r)
		case http.MethodDelete:
			cfg.Workspaces.Delete(w, r)
		default:
			methodNotAllowed(w, http.MethodGet, http.MethodDelete)
		}
		return
	}

	switch segments[1] {
	case "settings":
		if len(segments) != 2 {
			http.NotFound(w, r)
			return
		}
		if r.Method != http.MethodPut {
			methodNotAllowed(w, http.MethodPut)
			return
		}
		cfg.Workspaces.UpdateSettings(w, r)
	case "members":
		switch {
		case len(segments) == 2:
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Workspaces.ListMembers(w, r)
		case len(segments) == 3 && segments[2] == "me":
			if r.Method != http.MethodDelete {
				methodNotAllowed(w, http.MethodDelete)
				return
			}
			cfg.Workspaces.Leave(w, r)
		default:
			http.NotFound(w, r)
		}
	case "invitations":
		if cfg.Invitations == nil || len(segments) != 2 {
			http.NotFound(w, r)
			return
		}
		if r.Method != http.MethodPost {
			methodNotAllowed(w, http.MethodPost)
			return
		}
		cfg.Invitations.Invite(w, r)
	case "rooms":
		if cfg.Rooms == nil {
			http.NotFound(w, r)
			return
		}
		switch {
		case len(segments) == 2:
			switch r.Method {
			case http.MethodGet:
				cfg.Rooms.List(w, r)
			case http.MethodPost:
				cfg.Rooms.Create(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPost)
			}
		case len(segments) == 3:
			r = r.WithContext(ContextWithRoomID(r.Context(), segments[2]))
			switch r.Method {
			case http.MethodPut:
				cfg.Rooms.Update(w, r)
			case http.MethodDelete:
				cfg.Rooms.Delete(w, r)
			default:
				methodNotAllowed(w, http.MethodPut, http.MethodDelete)
			}
		default:
			http.NotFound(w, r)
		}
	case "bookings":
		if cfg.Bookings == nil {
			http.NotFound(w, r)
			return
		}
		switch {
		case len(segments) == 2:
			switch r.Method {
			case http.MethodGet:
				cfg.Bookings.List(w, r)
			case http.MethodPost:
				cfg.Bookings.Create(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPost)
			}
		case len(segments) == 4 && segments[3] == "cancel":
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			r = r.WithContext(ContextWithBookingID(r.Context(), segments[2]))
			cfg.Bookings.Cancel(w, r)
		default:
			http.NotFound(w, r)
		}
	default:
		http.NotFound(w, r)
	}
}

func splitPath(path string) []string {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	out := parts[:0]
	for _, part := range parts {
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	if len(allowed) > 0 {
		w.Header().Set("Allow", strings.Join(allowed, ", "))
	}
	http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
}
