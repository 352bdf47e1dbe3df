package catalog

// DefaultPopHeightRatio is used when a project sets no popHeightRatio.
const DefaultPopHeightRatio = 0.25

// Links are optional outbound links of a project.
type Links struct {
	Demo string `yaml:"demo,omitempty" json:"demo,omitempty"`
	Repo string `yaml:"repo,omitempty" json:"repo,omitempty"`
}

// Project describes one showcased app.
type Project struct {
	ID               string   `yaml:"id" json:"id"`
	Name             string   `yaml:"name" json:"name"`
	Tagline          string   `yaml:"tagline" json:"tagline"`
	Description      string   `yaml:"description" json:"description"`
	ShortDescription []string `yaml:"shortDescription,omitempty" json:"shortDescription,omitempty"`
	Features         []string `yaml:"features" json:"features"`
	TechStack        []string `yaml:"techStack" json:"techStack"`

	Image              string `yaml:"image,omitempty" json:"image,omitempty"`
	HeroCharacterImage string `yaml:"heroCharacterImage,omitempty" json:"heroCharacterImage,omitempty"`

	Screenshots             []string `yaml:"screenshots,omitempty" json:"screenshots,omitempty"`
	InitialActiveScreenshot string   `yaml:"initialActiveScreenshot,omitempty" json:"initialActiveScreenshot,omitempty"`

	// PopHeightRatio is the share of the card image the hero character rises
	// above the card when the project is centered.
	PopHeightRatio float64 `yaml:"popHeightRatio,omitempty" json:"popHeightRatio,omitempty"`

	Links Links `yaml:"links,omitempty" json:"links"`
}

// InitialScreenshotIndex returns the index of InitialActiveScreenshot in
// Screenshots, or 0 when it is unset or not found.
func (p *Project) InitialScreenshotIndex() int {
	if p.InitialActiveScreenshot == "" {
		return 0
	}
	for i, s := range p.Screenshots {
		if s == p.InitialActiveScreenshot {
			return i
		}
	}
	return 0
}

// PopRatio returns PopHeightRatio or the default.
func (p *Project) PopRatio() float64 {
	if p.PopHeightRatio > 0 {
		return p.PopHeightRatio
	}
	return DefaultPopHeightRatio
}

// HeroImage is the image shown on the app page header.
func (p *Project) HeroImage() string {
	if p.HeroCharacterImage != "" {
		return p.HeroCharacterImage
	}
	return p.Image
}

// AppPath is the landing page of a project.
func AppPath(id string) string {
	return "/apps/" + id
}

// RegisterPath is the waitlist page of a project.
func RegisterPath(id string) string {
	return "/apps/" + id + "/register"
}
