package main

import (
	"context"
	"log"
	"os"

	"cloud.google.com/go/firestore"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"google.golang.org/api/option"

	fbapp "firebase.google.com/go/v4"

	"planora/internal/adapter/api"
	"planora/internal/adapter/api/handler"
	apimiddleware "planora/internal/adapter/api/middleware"
	"planora/internal/adapter/api/router"
	"planora/internal/adapter/repository"
	"planora/internal/infrastructure/firebase"
	"planora/internal/infrastructure/sync"
	"planora/internal/infrastructure/websocket"
	"planora/internal/usecase"
	"planora/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	var opts []option.ClientOption

	// Service account from environment variable (production) or file path
	// (local development). Without either, application default credentials.
	if serviceAccountJSON := os.Getenv("FIREBASE_SERVICE_ACCOUNT_JSON"); serviceAccountJSON != "" {
		opts = append(opts, option.WithCredentialsJSON([]byte(serviceAccountJSON)))
	} else if serviceAccountPath := os.Getenv("FIREBASE_SERVICE_ACCOUNT_PATH"); serviceAccountPath != "" {
		if _, err := os.Stat(serviceAccountPath); os.IsNotExist(err) {
			log.Fatalf("Service account file does not exist: %s", serviceAccountPath)
		}
		opts = append(opts, option.WithCredentialsFile(serviceAccountPath))
	}

	firebaseApp, err := fbapp.NewApp(ctx, &fbapp.Config{ProjectID: cfg.FirebaseProject}, opts...)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase: %v", err)
	}

	authClient, err := firebaseApp.Auth(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase Auth: %v", err)
	}

	firestoreClient, err := firestore.NewClient(ctx, cfg.FirebaseProject, opts...)
	if err != nil {
		log.Fatalf("Failed to create Firestore client: %v", err)
	}
	defer firestoreClient.Close()

	repository.Configure(cfg.RepositoryTimeout, cfg.RetryBaseInterval, cfg.RetryMaxAttempts)

	roomRepo := repository.NewFirestoreRoomRepository(firestoreClient)
	participantRepo := repository.NewFirestoreParticipantRepository(firestoreClient)
	messageRepo := repository.NewFirestoreMessageRepository(firestoreClient)
	profileRepo := repository.NewFirestoreProfileRepository(firestoreClient)
	projectRepo := repository.NewFirestoreProjectRepository(firestoreClient)
	changeFeed := repository.NewFirestoreChangeFeed(firestoreClient)

	wsManager := websocket.NewManager(websocket.NewMembershipAuthorizer(participantRepo))
	wsManager.Start(ctx)

	syncController := sync.NewController(changeFeed, participantRepo, wsManager)
	go syncController.Run(ctx)

	resolverUseCase := usecase.NewRoomResolverUseCase(roomRepo, participantRepo)
	directoryUseCase := usecase.NewRoomDirectoryUseCase(roomRepo, participantRepo, messageRepo, projectRepo)
	messageUseCase := usecase.NewMessageUseCase(roomRepo, participantRepo, messageRepo, profileRepo)
	membershipUseCase := usecase.NewMembershipUseCase(roomRepo, participantRepo, messageRepo)

	e := echo.New()

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	e.Validator = api.NewValidator()

	firebaseAuthClient := firebase.NewFirebaseAuthClient(authClient)
	authMiddleware := apimiddleware.NewAuthMiddleware(firebaseAuthClient)

	roomHandler := handler.NewRoomHandler(resolverUseCase, directoryUseCase, membershipUseCase)
	messageHandler := handler.NewMessageHandler(messageUseCase)
	memberHandler := handler.NewMemberHandler(membershipUseCase)
	wsHandler := handler.NewWebSocketHandler(wsManager, authMiddleware)

	router.Setup(e, authMiddleware, roomHandler, messageHandler, memberHandler, wsHandler)

	log.Printf("Starting server on port %s...", cfg.ServerPort)
	e.Logger.Fatal(e.Start(":" + cfg.ServerPort))
}
