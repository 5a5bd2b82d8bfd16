package echoapi

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/academia/core/catalog"
)

type CatalogService interface {
	SubjectsAndLevels(ctx context.Context) (catalog.SubjectsAndLevels, error)
	Offerings(ctx context.Context) ([]catalog.OfferingDetail, error)
	ResolveOffering(ctx context.Context, subjectID, levelID string) (string, error)
	CreateSubject(ctx context.Context, ns catalog.NewSubject) (catalog.Subject, error)
	CreateLevel(ctx context.Context, nl catalog.NewLevel) (catalog.Level, error)
	SaveOffering(ctx context.Context, so catalog.SaveOffering) (catalog.OfferingDetail, error)
}

type catalogApi struct {
	svc CatalogService
}

func registerCatalogAPI(g *echo.Group, svc CatalogService) {
	api := catalogApi{svc: svc}

	cg := g.Group("/catalog")
	cg.GET("", api.query)
	cg.POST("/subjects", api.createSubject)
	cg.POST("/levels", api.createLevel)
	cg.GET("/offerings", api.queryOfferings)
	cg.PUT("/offerings", api.saveOffering)
	cg.GET("/offerings/resolve", api.resolveOffering)
}

func (api *catalogApi) query(ctx echo.Context) error {
	sl, err := api.svc.SubjectsAndLevels(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying subjects and levels")
	}
	return ctx.JSON(http.StatusOK, sl)
}

func (api *catalogApi) createSubject(ctx echo.Context) error {
	var data catalog.NewSubject
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSubject")
	}
	subj, err := api.svc.CreateSubject(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating subject")
	}
	return ctx.JSON(http.StatusCreated, subj)
}

func (api *catalogApi) createLevel(ctx echo.Context) error {
	var data catalog.NewLevel
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewLevel")
	}
	lvl, err := api.svc.CreateLevel(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating level")
	}
	return ctx.JSON(http.StatusCreated, lvl)
}

func (api *catalogApi) queryOfferings(ctx echo.Context) error {
	offerings, err := api.svc.Offerings(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying offerings")
	}
	return ctx.JSON(http.StatusOK, offerings)
}

func (api *catalogApi) saveOffering(ctx echo.Context) error {
	var data catalog.SaveOffering
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SaveOffering")
	}
	off, err := api.svc.SaveOffering(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "saving offering")
	}
	return ctx.JSON(http.StatusOK, off)
}

func (api *catalogApi) resolveOffering(ctx echo.Context) error {
	if err := requireParams(ctx, "subject_id", "level_id"); err != nil {
		return err
	}
	id, err := api.svc.ResolveOffering(ctx.Request().Context(), ctx.QueryParam("subject_id"), ctx.QueryParam("level_id"))
	if err != nil {
		return errors.Wrap(err, "resolving offering")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"offering_id": id})
}
