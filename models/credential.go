package models

// SharedCredential is the minimal identity persisted by the shared-auth
// bridge so the sandboxed share-extension process can write to the remote
// store without the main app's session.
type SharedCredential struct {
	UserID       string `json:"user_id"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}
