package model

type Company struct {
	Name         string `json:"name"`
	Slug         string `json:"slug"`
	Tagline      string `json:"tagline"`
	About        string `json:"about"`
	Website      string `json:"website"`
	Industry     string `json:"industry"`
	Size         string `json:"size"`
	Location     string `json:"location"`
	Logo         string `json:"logo"`
	CoverPicture string `json:"cover_picture"`
	Followers    int    `json:"followers"`
}

// CompanyUpdate is the company edit form field set.
type CompanyUpdate struct {
	Name     string `json:"name"`
	Tagline  string `json:"tagline"`
	About    string `json:"about"`
	Website  string `json:"website"`
	Industry string `json:"industry"`
	Size     string `json:"size"`
	Location string `json:"location"`
}
