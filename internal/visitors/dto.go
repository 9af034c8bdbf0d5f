package visitors

type ChildInput struct {
	FullName  string  `json:"fullName" validate:"required,max=200"`
	BirthDate *string `json:"birthDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Allergies *string `json:"allergies,omitempty" validate:"omitempty,max=500"`
}

type RegisterVisitorRequest struct {
	FullName   string       `json:"fullName" validate:"required,max=200"`
	Email      *string      `json:"email,omitempty" validate:"omitempty,email"`
	Phone      *string      `json:"phone,omitempty" validate:"omitempty,max=50"`
	FirstVisit *string      `json:"firstVisit,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Notes      *string      `json:"notes,omitempty" validate:"omitempty,max=2000"`
	Children   []ChildInput `json:"children,omitempty" validate:"omitempty,dive"`
}

type ListVisitorsRequest struct {
	Search *string `json:"search,omitempty"`
	Limit  int     `json:"limit" validate:"gte=0,lte=500"`
	Offset int     `json:"offset" validate:"gte=0"`
}
