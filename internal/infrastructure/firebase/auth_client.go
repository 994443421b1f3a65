package firebase

import (
	"context"

	"firebase.google.com/go/v4/auth"
)

// FirebaseAuthClient wraps the admin SDK auth client. The chat service never
// creates accounts; it only verifies tokens issued by the surrounding
// application.
type FirebaseAuthClient struct {
	client *auth.Client
}

func NewFirebaseAuthClient(client *auth.Client) *FirebaseAuthClient {
	return &FirebaseAuthClient{
		client: client,
	}
}

func (f *FirebaseAuthClient) VerifyToken(ctx context.Context, token string) (string, error) {
	result, err := f.client.VerifyIDToken(ctx, token)
	if err != nil {
		return "", err
	}
	return result.UID, nil
}

func (f *FirebaseAuthClient) TestConnection(ctx context.Context) error {
	_, err := f.client.GetUsers(ctx, []auth.UserIdentifier{auth.UIDIdentifier{UID: "connection-probe"}})
	return err
}
