package entity

// UserProfile is the minimal sender/member projection supplied by the
// external profile service.
type UserProfile struct {
	ID          string `json:"id" firestore:"id"`
	DisplayName string `json:"display_name" firestore:"displayName"`
	AvatarURL   string `json:"avatar_url,omitempty" firestore:"avatarUrl,omitempty"`
}
