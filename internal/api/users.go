package api

import (
	"net/http"

	"trading-journal-go/internal/accounts"
)

type identityRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

func (s *Server) registerHandler(w http.ResponseWriter, r *http.Request) {
	var req identityRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	u, err := s.accounts.Register(r.Context(), req.Email, req.Name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, u)
}

func (s *Server) meHandler(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, currentUser(r.Context()))
}

func (s *Server) listUsersHandler(w http.ResponseWriter, r *http.Request) {
	users, err := s.accounts.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, users)
}

func (s *Server) createAdminHandler(w http.ResponseWriter, r *http.Request) {
	var req identityRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	u, err := s.accounts.CreateAdmin(r.Context(), req.Email, req.Name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, u)
}

type statusRequest struct {
	Status string `json:"status"`
}

func (s *Server) updateStatusHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req statusRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	status, err := accounts.ParseStatus(req.Status)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.respondUser(w, r)(s.accounts.UpdateStatus(r.Context(), id, status))
}

type subscriptionRequest struct {
	Tier      string `json:"tier"`
	AutoRenew bool   `json:"auto_renew"`
}

func (s *Server) updateSubscriptionHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req subscriptionRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	tier, err := accounts.ParseTier(req.Tier)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.respondUser(w, r)(s.accounts.UpdateSubscription(r.Context(), id, tier, req.AutoRenew))
}

func (s *Server) promoteHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.respondUser(w, r)(s.accounts.PromoteToAdmin(r.Context(), id))
}

func (s *Server) demoteHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.respondUser(w, r)(s.accounts.DemoteAdmin(r.Context(), id))
}

func (s *Server) deleteUserHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.accounts.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) respondUser(w http.ResponseWriter, r *http.Request) func(accounts.User, error) {
	return func(u accounts.User, err error) {
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		s.writeJSON(w, http.StatusOK, u)
	}
}
