package web

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/teslashibe/showcase/pkg/carousel"
	"github.com/teslashibe/showcase/pkg/catalog"
	"github.com/teslashibe/showcase/pkg/contact"
)

// projectLinks adds the site routes to a project's own links.
type projectLinks struct {
	Demo     string `json:"demo,omitempty"`
	Repo     string `json:"repo,omitempty"`
	App      string `json:"app"`
	Register string `json:"register"`
}

// projectView is a project as the API returns it.
type projectView struct {
	*catalog.Project
	Links             projectLinks `json:"links"`
	InitialScreenshot int          `json:"initialScreenshot"`
	PopRatio          float64      `json:"popRatio"`
	HeroImage         string       `json:"heroImage,omitempty"`
}

func viewOf(p *catalog.Project) projectView {
	return projectView{
		Project: p,
		Links: projectLinks{
			Demo:     p.Links.Demo,
			Repo:     p.Links.Repo,
			App:      catalog.AppPath(p.ID),
			Register: catalog.RegisterPath(p.ID),
		},
		InitialScreenshot: p.InitialScreenshotIndex(),
		PopRatio:          p.PopRatio(),
		HeroImage:         p.HeroImage(),
	}
}

// handleHealth reports liveness and a few counters.
func (s *Server) handleHealth(c *fiber.Ctx) error {
	resp := fiber.Map{
		"status":   "ok",
		"projects": s.catalog.Catalog().Len(),
		"sessions": s.Sessions(),
	}
	if s.activity != nil {
		resp["activityClients"] = s.activity.ClientCount()
	}
	return c.JSON(resp)
}

// handleListProjects returns the catalog in display order.
func (s *Server) handleListProjects(c *fiber.Ctx) error {
	projects := s.catalog.Catalog().List()
	views := make([]projectView, len(projects))
	for i, p := range projects {
		views[i] = viewOf(p)
	}
	return c.JSON(fiber.Map{
		"projects": views,
		"count":    len(views),
	})
}

// handleGetProject returns one project.
func (s *Server) handleGetProject(c *fiber.Ctx) error {
	p, ok := s.catalog.Catalog().Get(c.Params("id"))
	if !ok {
		return fiber.NewError(fiber.StatusNotFound, "project not found")
	}
	return c.JSON(viewOf(p))
}

// handleFormLayout returns the fields of a form, optionally locked to a project.
func (s *Server) handleFormLayout(c *fiber.Ctx) error {
	kind, err := contact.ParseKind(c.Params("kind"))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, "unknown form")
	}
	cat := s.catalog.Catalog()
	projectID := c.Query("projectId")
	if projectID != "" {
		if _, ok := cat.Get(projectID); !ok {
			return fiber.NewError(fiber.StatusNotFound, "project not found")
		}
	}
	return c.JSON(contact.Layout(kind, projectID, cat))
}

// maxLayoutCount caps ?count= on the layout endpoint.
const maxLayoutCount = 1000

// carouselLayout is the response of the stateless layout endpoint.
type carouselLayout struct {
	Site      string          `json:"site"`
	Layout    string          `json:"layout"`
	Count     int             `json:"count"`
	Active    int             `json:"active"`
	Highlight bool            `json:"highlight"`
	Slots     []carousel.Slot `json:"slots"`
}

// handleCarouselLayout computes slot variants for ?count=&active=&highlight=.
// Out-of-range values are normalized, never rejected.
func (s *Server) handleCarouselLayout(c *fiber.Ctx) error {
	site := c.Params("site")
	cat := s.catalog.Catalog()

	var (
		layout        carousel.Layout
		defaultCount  int
		defaultActive int
	)
	switch site {
	case "projects":
		layout = carousel.ProjectsLayout
		defaultCount = cat.Len()
		defaultActive = projectsInitialIndex
	case "screenshots":
		layout = carousel.ScreenshotsLayout
		if id := c.Query("projectId"); id != "" {
			p, ok := cat.Get(id)
			if !ok {
				return fiber.NewError(fiber.StatusNotFound, "project not found")
			}
			defaultCount = len(p.Screenshots)
			defaultActive = p.InitialScreenshotIndex()
		}
	default:
		return fiber.NewError(fiber.StatusNotFound, "unknown carousel")
	}

	count := c.QueryInt("count", defaultCount)
	if count > maxLayoutCount {
		return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("count must be at most %d", maxLayoutCount))
	}
	e := carousel.New(count)
	e.SetIndex(c.QueryInt("active", defaultActive))
	highlight := c.QueryBool("highlight", false)

	return c.JSON(carouselLayout{
		Site:      site,
		Layout:    layout.Name,
		Count:     e.Count(),
		Active:    e.Active(),
		Highlight: highlight,
		Slots:     carousel.Slots(layout, e.Count(), e.Active(), highlight),
	})
}
