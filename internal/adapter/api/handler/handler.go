package handler

import (
	"campuscloset/internal/infrastructure/firebase"
	"campuscloset/internal/usecase"
)

var (
	userHandler         *UserHandler
	itemHandler         *ItemHandler
	rentalHandler       *RentalHandler
	conversationHandler *ConversationHandler
)

func Setup(
	userUseCase *usecase.UserUseCase,
	itemUseCase *usecase.ItemUseCase,
	rentalUseCase *usecase.RentalUseCase,
	messagingUseCase *usecase.MessagingUseCase,
	authClient *firebase.AuthClient,
) {
	userHandler = NewUserHandler(userUseCase, authClient)
	itemHandler = NewItemHandler(itemUseCase)
	rentalHandler = NewRentalHandler(rentalUseCase)
	conversationHandler = NewConversationHandler(messagingUseCase)
}

func GetUserHandler() *UserHandler {
	return userHandler
}

func GetItemHandler() *ItemHandler {
	return itemHandler
}

func GetRentalHandler() *RentalHandler {
	return rentalHandler
}

func GetConversationHandler() *ConversationHandler {
	return conversationHandler
}
