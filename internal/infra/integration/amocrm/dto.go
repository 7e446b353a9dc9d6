package amocrm

type CreateContactInput struct {
	Name         string
	Phone        string
	PhoneFieldID int
}

type CreateLeadInput struct {
	Name              string
	PipelineID        int
	StatusID          int
	ResponsibleUserID int
	Tags              []string
	Source            string
	CustomFields      []LeadFieldValue
}

// LeadFieldValue é um valor para um campo customizado do lead
// (ex: email ou comentário vindos do webhook, com o ID resolvido
// pelo cache de metadados).
type LeadFieldValue struct {
	FieldID int
	Value   string
}

// LeadDetail é o lead como a API devolve no GET, com os vínculos
// embutidos quando pedidos via with=contacts.
type LeadDetail struct {
	ID                int    `json:"id"`
	Name              string `json:"name"`
	PipelineID        int    `json:"pipeline_id"`
	StatusID          int    `json:"status_id"`
	ResponsibleUserID int    `json:"responsible_user_id"`
	Embedded          struct {
		Contacts []struct {
			ID   int  `json:"id"`
			Main bool `json:"is_main"`
		} `json:"contacts"`
		Tags []struct {
			ID   int    `json:"id"`
			Name string `json:"name"`
		} `json:"tags"`
	} `json:"_embedded"`
}

// ---- formatos de requisição da API v4 ----

type contactRequest struct {
	Name               string             `json:"name"`
	CustomFieldsValues []customFieldValue `json:"custom_fields_values"`
}

type customFieldValue struct {
	FieldID int          `json:"field_id"`
	Values  []fieldValue `json:"values"`
}

type fieldValue struct {
	Value    string `json:"value"`
	EnumCode string `json:"enum_code,omitempty"`
}

type leadRequest struct {
	Name               string             `json:"name"`
	PipelineID         int                `json:"pipeline_id"`
	StatusID           int                `json:"status_id"`
	ResponsibleUserID  int                `json:"responsible_user_id"`
	Source             string             `json:"source,omitempty"`
	CustomFieldsValues []customFieldValue `json:"custom_fields_values,omitempty"`
	Embedded           *leadEmbedded      `json:"_embedded,omitempty"`
}

type leadEmbedded struct {
	Tags []tagRef `json:"tags,omitempty"`
}

type tagRef struct {
	Name string `json:"name"`
}

type linkRequest struct {
	ToEntityID   int    `json:"to_entity_id"`
	ToEntityType string `json:"to_entity_type"`
}
