package api

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// maxSurvivalMs is the largest survival_ms that fits a time.Duration.
const maxSurvivalMs = math.MaxInt64 / int64(time.Millisecond)

//go:embed submit.schema.json
var submitSchemaJSON string

var submitSchema = jsonschema.MustCompileString("submit.schema.json", submitSchemaJSON)

// submitRequest is the body of POST /v1/scores.
type submitRequest struct {
	Identity   string `json:"identity"`
	Score      int    `json:"score"`
	SurvivalMs int64  `json:"survival_ms"`
	Category   string `json:"category"`
}

// decodeSubmit validates body against the submission schema before
// decoding it.
func decodeSubmit(body []byte) (submitRequest, error) {
	var req submitRequest

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return req, fmt.Errorf("malformed JSON: %w", err)
	}
	if err := submitSchema.Validate(doc); err != nil {
		return req, err
	}
	if err := json.Unmarshal(body, &req); err != nil {
		return req, fmt.Errorf("malformed JSON: %w", err)
	}
	if req.SurvivalMs > maxSurvivalMs {
		return req, fmt.Errorf("survival_ms exceeds %d", maxSurvivalMs)
	}
	return req, nil
}
