package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/HarshalBhogawade/project-management-backend/middleware"
)

// NewRouter builds the /api/v1 route table. Signup and signin are open;
// every other route sits behind the bearer-token middleware.
func NewRouter(auth *AuthHandler, projects *ProjectHandler, tasks *TaskHandler) *mux.Router {
	r := mux.NewRouter()
	api := r.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/signup", auth.Signup).Methods(http.MethodPost)
	api.HandleFunc("/signin", auth.Signin).Methods(http.MethodPost)

	protected := api.NewRoute().Subrouter()
	protected.Use(middleware.JWTAuthMiddleware)

	protected.HandleFunc("/project", projects.CreateProject).Methods(http.MethodPost)
	protected.HandleFunc("/project", projects.ListProjects).Methods(http.MethodGet)
	protected.HandleFunc("/project/{id}", projects.GetProject).Methods(http.MethodGet)
	protected.HandleFunc("/project/{id}", projects.DeleteProject).Methods(http.MethodDelete)

	protected.HandleFunc("/tasks", tasks.CreateTask).Methods(http.MethodPost)
	protected.HandleFunc("/tasks", tasks.ListTasks).Methods(http.MethodGet)
	protected.HandleFunc("/tasks/{id}", tasks.GetTask).Methods(http.MethodGet)
	protected.HandleFunc("/tasks/{id}", tasks.UpdateTask).Methods(http.MethodPatch)
	protected.HandleFunc("/tasks/{id}", tasks.DeleteTask).Methods(http.MethodDelete)

	return r
}
