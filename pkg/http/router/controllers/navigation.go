package controllers

import (
	"fmt"
	"net/http"

	"github.com/chargepilot/chargepilot/pkg/geo"
	helper "github.com/chargepilot/chargepilot/pkg/http/router/routerhelper"
	"github.com/chargepilot/chargepilot/pkg/navigation"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
)

type navigationAPI struct {
	navigationService NavigationService
	log               *zap.Logger
}

func New(navigationService NavigationService, log *zap.Logger) *navigationAPI {
	return &navigationAPI{
		navigationService: navigationService,
		log:               log,
	}
}

func (api *navigationAPI) Routes(group *helper.RouteGroup) {
	group.POST("/navigation", api.startNavigation)
	group.GET("/navigation/:id", api.progress)
	group.DELETE("/navigation/:id", api.cancel)
	group.POST("/navigation/:id/prompt", api.respondToPrompt)
}

func (api *navigationAPI) startNavigation(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	var request startNavigationRequest
	if err := api.readJSON(w, r, &request); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}

	validate := validator.New()
	if err := validate.Struct(request); err != nil {
		english := en.New()
		uni := ut.New(english, english)
		trans, _ := uni.GetTranslator("en")
		_ = enTranslations.RegisterDefaultTranslations(validate, trans)
		vv := translateError(err, trans)
		vvString := []string{}
		for _, v := range vv {
			vvString = append(vvString, v.Error())
		}
		api.BadRequestResponse(w, r, fmt.Errorf("validation error: %v", vvString))
		return
	}

	sessionID, snapshot, err := api.navigationService.StartNavigation(r.Context(),
		geo.NewCoordinate(request.OriginLat, request.OriginLon),
		geo.NewCoordinate(request.DestinationLat, request.DestinationLon),
		navigation.VehicleProfile{
			CapacityKwh:  request.CapacityKwh,
			StartPercent: request.StartPercent,
		})
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}

	headers := make(http.Header)
	if err := api.writeJSON(w, http.StatusCreated,
		envelope{"data": NewStartNavigationResponse(sessionID, snapshot)}, headers); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}

func (api *navigationAPI) progress(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	snapshot, err := api.navigationService.Progress(p.ByName("id"))
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}

	if err := api.writeJSON(w, http.StatusOK, envelope{"data": snapshot}, nil); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}

func (api *navigationAPI) cancel(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	if err := api.navigationService.Cancel(p.ByName("id")); err != nil {
		api.getStatusCode(w, r, err)
		return
	}

	if err := api.writeJSON(w, http.StatusOK, envelope{"data": "navigation cancelled"}, nil); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}

func (api *navigationAPI) respondToPrompt(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	if err := api.navigationService.RespondToPrompt(p.ByName("id")); err != nil {
		api.getStatusCode(w, r, err)
		return
	}

	if err := api.writeJSON(w, http.StatusOK, envelope{"data": "prompt acknowledged"}, nil); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}
