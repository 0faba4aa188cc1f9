package dto

// SocialSignInResponse result of a social sign-in attempt.
type SocialSignInResponse struct {
	Outcome string  `json:"outcome"`
	Route   string  `json:"route,omitempty"`
	Notice  *Notice `json:"notice,omitempty"`
}

// Notice is a title/message pair shown to the user.
type Notice struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

// AuthStatusResponse current session state.
type AuthStatusResponse struct {
	IsLoaded        bool   `json:"is_loaded"`
	IsAuthenticated bool   `json:"is_authenticated"`
	UserID          string `json:"user_id,omitempty"`
	LoadingStrategy string `json:"loading_strategy,omitempty"`
}
