package members

type UpdateMemberRequest struct {
	FullName *string `json:"fullName,omitempty" validate:"omitempty,max=200"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,max=50"`
	Locale   *string `json:"locale,omitempty" validate:"omitempty,oneof=pt-BR en"`
	IsActive *bool   `json:"isActive,omitempty"`
}

type ListMembersRequest struct {
	Search   *string `json:"search,omitempty"`
	IsActive *bool   `json:"isActive,omitempty"`
	Limit    int     `json:"limit" validate:"gte=0,lte=500"`
	Offset   int     `json:"offset" validate:"gte=0"`
}
