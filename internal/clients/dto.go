package clients

type createClientRequest struct {
	Name      string  `json:"name" validate:"required,max=255"`
	Telephone string  `json:"telephone" validate:"required,max=255"`
	Phone     string  `json:"phone"`
	Telegram  *string `json:"telegram" validate:"omitempty,max=255"`
}

type updateClientRequest struct {
	Name      *string `json:"name" validate:"omitempty,max=255"`
	Telephone *string `json:"telephone" validate:"omitempty,max=255"`
	Phone     *string `json:"phone"`
	Telegram  *string `json:"telegram" validate:"omitempty,max=255"`
}

// normalise folds the legacy "phone" key into telephone.
func (r *createClientRequest) normalise() {
	if r.Telephone == "" {
		r.Telephone = r.Phone
	}
}

func (r *updateClientRequest) normalise() {
	if r.Telephone == nil {
		r.Telephone = r.Phone
	}
}
