package auth

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go"
	fbauth "firebase.google.com/go/auth"
	"google.golang.org/api/option"
)

var (
	firebaseAuth *fbauth.Client
	projectID    string
)

// InitFirebase wires up the Firebase Auth client used to verify Google
// sign-in ID tokens. Called once from main; login handlers fail with 503
// until it has run.
func InitFirebase(ctx context.Context, project, credsJSON string) error {
	if credsJSON == "" || project == "" {
		return fmt.Errorf("firebase project id and credentials are required")
	}
	projectID = project

	app, err := firebase.NewApp(ctx,
		&firebase.Config{ProjectID: projectID},
		option.WithCredentialsJSON([]byte(credsJSON)),
	)
	if err != nil {
		return fmt.Errorf("initializing firebase app: %w", err)
	}

	firebaseAuth, err = app.Auth(ctx)
	if err != nil {
		return fmt.Errorf("getting firebase auth client: %w", err)
	}
	return nil
}
