package models

// CreateEmployeeRequest is the body of POST /api/employees
type CreateEmployeeRequest struct {
	Name     string `json:"name" validate:"required,notblank"`
	Position string `json:"position" validate:"required,notblank"`
	Email    string `json:"email" validate:"required,notblank"`
}

// UpdateEmployeeRequest is a partial update: nil fields keep their stored value
type UpdateEmployeeRequest struct {
	Name     *string `json:"name,omitempty"`
	Position *string `json:"position,omitempty"`
	Email    *string `json:"email,omitempty"`
}

func (r UpdateEmployeeRequest) IsEmpty() bool {
	return r.Name == nil && r.Position == nil && r.Email == nil
}

// CreateProjectRequest is the body of POST /api/projects
type CreateProjectRequest struct {
	Name        string   `json:"name" validate:"required,notblank"`
	Description string   `json:"description" validate:"required,notblank"`
	Images      []string `json:"images"`
	Category    string   `json:"category" validate:"required,notblank"`
}

// UpdateProjectRequest is a partial update: nil fields keep their stored value.
// A non-nil Images replaces the whole list.
type UpdateProjectRequest struct {
	Name        *string   `json:"name,omitempty"`
	Description *string   `json:"description,omitempty"`
	Images      *[]string `json:"images,omitempty"`
	Category    *string   `json:"category,omitempty"`
}

func (r UpdateProjectRequest) IsEmpty() bool {
	return r.Name == nil && r.Description == nil && r.Images == nil && r.Category == nil
}

// UploadedFile is the response payload of a local image upload
type UploadedFile struct {
	Filename string `json:"filename"`
	URL      string `json:"url"`
}
