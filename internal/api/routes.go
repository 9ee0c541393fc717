package api

import "github.com/go-chi/chi/v5"

// Routes registers the auth endpoints on r. They are public.
func (h *AuthHandler) Routes(r chi.Router) {
	r.Post("/register", h.Register)
	r.Post("/login", h.Login)
	r.Post("/refresh", h.RefreshToken)
}

// Routes registers the task endpoints on r. r must already resolve the
// caller, see middleware.AuthMiddleware.Identify.
func (h *TaskHandler) Routes(r chi.Router) {
	r.Get("/", h.ListTasks)
	r.Post("/", h.CreateTask)
	r.Get("/view", h.View)
	r.Get("/counts", h.Counts)
	r.Patch("/{id}", h.UpdateTask)
	r.Put("/{id}/complete", h.CompleteTask)
	r.Post("/{id}/toggle", h.ToggleTask)
}
