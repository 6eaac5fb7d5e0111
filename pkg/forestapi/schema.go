package forestapi

import (
	// Packages
	jack "github.com/mutablelogic/go-jack"
	schema "github.com/mutablelogic/go-jack/pkg/schema"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// envelope wraps every response
type envelope[T any] struct {
	Success bool       `json:"success"`
	Data    T          `json:"data"`
	Error   *errorBody `json:"error,omitempty"`
}

type errorBody struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type searchData struct {
	Nodes      []schema.Node `json:"nodes"`
	Pagination struct {
		Total *int `json:"total"`
	} `json:"pagination"`
}

type nodeData struct {
	Node schema.Node `json:"node"`
}

type captureRequest struct {
	Title string   `json:"title"`
	Body  string   `json:"body"`
	Tags  []string `json:"tags,omitempty"`
}

type captureData struct {
	Node    schema.Node `json:"node"`
	Linking struct {
		AutoLinked   *int `json:"autoLinked"`
		EdgesCreated *int `json:"edgesCreated"`
	} `json:"linking"`
}

type statsData struct {
	Nodes struct {
		Total  int           `json:"total"`
		Recent []schema.Node `json:"recent"`
	} `json:"nodes"`
	Edges struct {
		Total int `json:"total"`
	} `json:"edges"`
}

type synthesizeRequest struct {
	NodeIDs []string `json:"nodeIds"`
}

type synthesizeData struct {
	Node    schema.Node `json:"node"`
	Sources []string    `json:"sources"`
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// unwrap returns the data, or an error with the server message when the
// request did not succeed
func (e *envelope[T]) unwrap() (T, error) {
	if !e.Success {
		var zero T
		if e.Error != nil && e.Error.Message != "" {
			return zero, jack.ErrUnavailable.With(e.Error.Message)
		}
		return zero, jack.ErrUnavailable.With("forest request failed")
	}
	return e.Data, nil
}
