package dto

// UpdateUserRequest captures partial user updates; only present fields are applied.
type UpdateUserRequest struct {
	Email     *string `json:"email,omitempty"`
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Timezone  *string `json:"timezone,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	Avatar    *string `json:"avatar,omitempty"`
	Enabled   *bool   `json:"enabled,omitempty"`
}

// UpdatePasswordRequest carries the current password for verification and its replacement.
type UpdatePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}
