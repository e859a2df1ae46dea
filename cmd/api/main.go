package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"cloud.google.com/go/firestore"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"google.golang.org/api/option"

	fbapp "firebase.google.com/go/v4"

	"campuscloset/internal/adapter/api"
	"campuscloset/internal/adapter/api/handler"
	apimiddleware "campuscloset/internal/adapter/api/middleware"
	"campuscloset/internal/adapter/api/router"
	"campuscloset/internal/adapter/repository"
	"campuscloset/internal/domain/service"
	"campuscloset/internal/infrastructure/firebase"
	"campuscloset/internal/infrastructure/storage"
	"campuscloset/internal/infrastructure/websocket"
	"campuscloset/internal/usecase"
	"campuscloset/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	var opts []option.ClientOption
	credentialsPath := os.Getenv("FIREBASE_SERVICE_ACCOUNT_PATH")
	if serviceAccountJSON := os.Getenv("FIREBASE_SERVICE_ACCOUNT_JSON"); serviceAccountJSON != "" {
		opts = append(opts, option.WithCredentialsJSON([]byte(serviceAccountJSON)))
		credentialsPath = ""
	} else if credentialsPath != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsPath))
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

	storageClient, err := storage.NewCloudStorageClient(ctx, cfg.StorageBucket, credentialsPath)
	if err != nil {
		log.Fatalf("Failed to initialize Cloud Storage: %v", err)
	}
	defer storageClient.Close()

	userRepo := repository.NewFirestoreUserRepository(firestoreClient)
	itemRepo := repository.NewFirestoreItemRepository(firestoreClient)
	rentalRepo := repository.NewFirestoreRentalRepository(firestoreClient)
	conversationRepo := repository.NewFirestoreConversationRepository(firestoreClient)

	firebaseAuthClient := firebase.NewAuthClient(authClient)
	accessPolicy := service.NewAccessPolicy()

	userUseCase := usecase.NewUserUseCase(userRepo)
	messagingUseCase := usecase.NewMessagingUseCase(conversationRepo, userRepo, itemRepo, accessPolicy)
	rentalUseCase := usecase.NewRentalUseCase(rentalRepo, itemRepo, messagingUseCase)
	itemUseCase := usecase.NewItemUseCase(itemRepo, conversationRepo, rentalRepo, storageClient)

	wsManager := websocket.NewManager(messagingUseCase)

	handler.Setup(userUseCase, itemUseCase, rentalUseCase, messagingUseCase, firebaseAuthClient)
	handler.SetupFileHandler(storageClient, cfg.MaxUploadBytes)

	e := echo.New()

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	e.Validator = api.NewValidator()

	authMiddleware := apimiddleware.NewAuthMiddleware(authClient)
	wsHandler := handler.NewWebSocketHandler(wsManager, authMiddleware)

	router.Setup(e, authMiddleware)
	router.SetupWebSocketRouter(e, wsHandler)

	go func() {
		log.Printf("Starting server on port %s...", cfg.ServerPort)
		if err := e.Start(":" + cfg.ServerPort); err != nil {
			log.Printf("Server stopped: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")
	messagingUseCase.Cleanup()
	if err := e.Shutdown(ctx); err != nil {
		log.Fatalf("Forced shutdown: %v", err)
	}
}
