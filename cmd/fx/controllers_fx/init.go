package controllers_fx

import (
	"go.uber.org/fx"

	"angido/internal/api/controllers"
)

var Module = fx.Options(
	fx.Provide(controllers.NewAccountController),
	fx.Provide(controllers.NewProvincesController),
	fx.Provide(controllers.NewTagController),
	fx.Provide(controllers.NewPlaceController),
	fx.Provide(controllers.NewReviewController),
	fx.Provide(controllers.NewItineraryController),
	fx.Provide(controllers.NewSuggestionController),
	fx.Provide(controllers.NewSubscriptionController),
	fx.Provide(controllers.NewDashboardController))
