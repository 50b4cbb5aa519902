package scheduling

import (
	"github.com/go-chi/chi/v5"

	"github.com/BenFNash/boom-power/pkg/audit"
	"github.com/BenFNash/boom-power/pkg/authz"
	"github.com/BenFNash/boom-power/pkg/cache"
)

// Router returns the HTTP routes for templates, schedules and
// generated instances, each guarded by the matching permission. Reads
// go through the response cache; successful writes invalidate it. A nil
// cache manager disables caching.
func Router(templates *TemplateStore, schedules *ScheduleStore, instances *InstanceStore,
	engine *Engine, recorder *audit.Recorder, caches *cache.Manager, authorizer authz.Authorizer) chi.Router {
	r := chi.NewRouter()

	cached := caches.SchedulingMiddleware()
	invalidating := cache.InvalidateOnWrite(caches.InvalidateScheduling)

	r.Route("/templates", func(r chi.Router) {
		r.With(authz.RequirePermission(authorizer, authz.ResourceTemplates, authz.VerbList), cached).
			Get("/", ListTemplatesHandler(templates))
		r.With(authz.RequirePermission(authorizer, authz.ResourceTemplates, authz.VerbCreate), invalidating).
			Post("/", CreateTemplateHandler(templates, recorder))
		r.With(authz.RequirePermission(authorizer, authz.ResourceTemplates, authz.VerbUpdate), invalidating).
			Patch("/{templateId}", UpdateTemplateHandler(templates, recorder))
	})

	r.Route("/schedules", func(r chi.Router) {
		r.With(authz.RequirePermission(authorizer, authz.ResourceSchedules, authz.VerbList), cached).
			Get("/", ListSchedulesHandler(schedules))
		r.With(authz.RequirePermission(authorizer, authz.ResourceSchedules, authz.VerbCreate), invalidating).
			Post("/", CreateScheduleHandler(schedules, recorder))
		r.With(authz.RequirePermission(authorizer, authz.ResourceSchedules, authz.VerbUpdate), invalidating).
			Patch("/{scheduleId}", UpdateScheduleHandler(schedules, recorder))
	})

	r.With(authz.RequirePermission(authorizer, authz.ResourceSchedules, authz.VerbGenerate), invalidating).
		Post("/schedules:generate", GenerateHandler(engine, recorder))

	r.With(authz.RequirePermission(authorizer, authz.ResourceInstances, authz.VerbList), cached).
		Get("/instances", ListInstancesHandler(instances))

	return r
}
