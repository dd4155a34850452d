package api

// PlaceholderImage is used for projects without an image.
const PlaceholderImage = "assets/images/projects/placeholder.svg"

// Catalog is the projects.json document rendered by the projects page.
type Catalog struct {
	Projects []Project `json:"projects" validate:"dive"`
}

type Project struct {
	Slug         string   `json:"slug" validate:"required"`
	Title        string   `json:"title" validate:"required"`
	Category     string   `json:"category" validate:"required"`
	Technologies []string `json:"technologies"`
	Excerpt      string   `json:"excerpt"`
	Image        string   `json:"image,omitempty"`
}
