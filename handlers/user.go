package handlers

import (
	"net/http"

	"github.com/wohnmatch/wohnmatch.api/data"
	"github.com/wohnmatch/wohnmatch.api/data/repos"
)

type UserHandler struct {
	userRepo *repos.UserRepo
}

func NewUserHandler(repo *repos.UserRepo) *UserHandler {
	return &UserHandler{
		userRepo: repo,
	}
}

func (h UserHandler) InitializeUser(w http.ResponseWriter, r *http.Request) Result {
	user := r.Context().Value("user").(data.User)
	exists, err := h.userRepo.GetUserByID(r.Context(), user.ID)
	if err != nil {
		return InternalError(err, "initialize user: get user")
	}
	if exists != nil {
		return Ok(map[string]any{"id": user.ID})
	}

	id, err := h.userRepo.InsertUser(r.Context(), user)
	if err != nil {
		return InternalError(err, "initialize user: insert user")
	}

	return Created(id)
}
