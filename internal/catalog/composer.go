package catalog

import (
	"encoding/json"
	"strings"

	"github.com/google/uuid"

	pkgerrors "github.com/aurelia-jewels/aurelia-backend/pkg/errors"
	"github.com/aurelia-jewels/aurelia-backend/pkg/types"
)

// VariationInput is one submitted variation. ID is present when the
// client is updating an existing row; new rows come without one.
type VariationInput struct {
	ID              string               `json:"id"`
	MetalVariations []MetalVariationInput `json:"metalVariations"`
}

// MetalVariationInput is the submitted per-metal branch.
type MetalVariationInput struct {
	Metal         string           `json:"metal"`
	Quantity      flexInt          `json:"quantity"`
	Images        []string         `json:"images"`
	DiamondShapes []NamedImageInput `json:"diamondShape"`
	Shanks        []NamedImageInput `json:"shank"`
	RingSizes     []RingSizeInput   `json:"ringSizes"`
}

type NamedImageInput struct {
	Name  string `json:"name"`
	Image string `json:"image"`
}

type RingSizeInput struct {
	Size         string      `json:"productSize"`
	RegularPrice flexDecimal `json:"regularPrice"`
	SalePrice    flexDecimal `json:"salePrice"`
	Quantity     flexInt     `json:"quantity"`
}

// ParseVariations decodes the raw variations payload. Multipart clients
// send it as a JSON string; JSON clients send the array directly.
func ParseVariations(raw string) ([]VariationInput, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	var probe any
	if err := json.Unmarshal([]byte(raw), &probe); err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid variations format")
	}

	// double-encoded: a JSON string holding the array
	if s, ok := probe.(string); ok {
		raw = s
		if err := json.Unmarshal([]byte(raw), &probe); err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid variations format")
		}
	}

	if _, ok := probe.([]any); !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "variations must be an array")
	}

	var inputs []VariationInput
	if err := json.Unmarshal([]byte(raw), &inputs); err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid variations format")
	}
	return inputs, nil
}

// ImageFieldKey returns the multipart field carrying uploads for a metal:
// spaces become underscores, so "Rose Gold" reads from "images_Rose_Gold".
func ImageFieldKey(metal string) string {
	return "images_" + strings.ReplaceAll(strings.TrimSpace(metal), " ", "_")
}

// ApplyUploadedImages walks the submitted variations and appends freshly
// saved image paths to the matching metal branch. Keys in uploads are
// multipart field names as produced by ImageFieldKey.
func ApplyUploadedImages(inputs []VariationInput, uploads map[string][]string) {
	if len(uploads) == 0 {
		return
	}
	for vi := range inputs {
		for mi := range inputs[vi].MetalVariations {
			key := ImageFieldKey(inputs[vi].MetalVariations[mi].Metal)
			if paths, ok := uploads[key]; ok && len(paths) > 0 {
				inputs[vi].MetalVariations[mi].Images = append(inputs[vi].MetalVariations[mi].Images, paths...)
			}
		}
	}
}

// toMetalVariations converts coerced inputs into the stored document.
func toMetalVariations(inputs []MetalVariationInput) types.MetalVariations {
	out := make(types.MetalVariations, 0, len(inputs))
	for _, in := range inputs {
		mv := types.MetalVariation{
			Metal:    strings.TrimSpace(in.Metal),
			Quantity: int(in.Quantity),
			Images:   in.Images,
		}
		for _, ds := range in.DiamondShapes {
			mv.DiamondShapes = append(mv.DiamondShapes, types.NamedImage{Name: ds.Name, Image: ds.Image})
		}
		for _, sh := range in.Shanks {
			mv.Shanks = append(mv.Shanks, types.NamedImage{Name: sh.Name, Image: sh.Image})
		}
		for _, rs := range in.RingSizes {
			mv.RingSizes = append(mv.RingSizes, types.RingSize{
				Size:         rs.Size,
				RegularPrice: rs.RegularPrice.decimal(),
				SalePrice:    rs.SalePrice.decimal(),
				Quantity:     int(rs.Quantity),
			})
		}
		out = append(out, mv)
	}
	return out
}

// reconcilePlan partitions submitted variations against the stored rows:
// known ids update in place, unknown ids and id-less entries insert, and
// stored rows absent from the submission are deleted.
type reconcilePlan struct {
	updates map[uuid.UUID][]MetalVariationInput
	inserts [][]MetalVariationInput
	deletes []uuid.UUID
}

func buildReconcilePlan(existing []uuid.UUID, inputs []VariationInput) reconcilePlan {
	known := make(map[uuid.UUID]bool, len(existing))
	for _, id := range existing {
		known[id] = true
	}

	plan := reconcilePlan{updates: make(map[uuid.UUID][]MetalVariationInput)}
	seen := make(map[uuid.UUID]bool)

	for _, in := range inputs {
		id, err := uuid.Parse(strings.TrimSpace(in.ID))
		if err == nil && known[id] {
			plan.updates[id] = in.MetalVariations
			seen[id] = true
			continue
		}
		plan.inserts = append(plan.inserts, in.MetalVariations)
	}

	for _, id := range existing {
		if !seen[id] {
			plan.deletes = append(plan.deletes, id)
		}
	}
	return plan
}
