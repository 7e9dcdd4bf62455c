package shopify

import (
	"fmt"
	"strings"

	apperrors "github.com/GKRMP/garage/pkg/errors"
)

// MetafieldsSetMutation sets metafields on a resource (the customer garage list).
const MetafieldsSetMutation = `
mutation metafieldsSet($metafields: [MetafieldsSetInput!]!) {
  metafieldsSet(metafields: $metafields) {
    metafields {
      key
      namespace
      value
    }
    userErrors {
      field
      message
      code
    }
  }
}
`

// MetaobjectDefinitionCreateMutation creates the definition vehicles are stored under
const MetaobjectDefinitionCreateMutation = `
mutation metaobjectDefinitionCreate($definition: MetaobjectDefinitionCreateInput!) {
  metaobjectDefinitionCreate(definition: $definition) {
    metaobjectDefinition {
      id
      type
    }
    userErrors {
      field
      message
      code
    }
  }
}
`

// MetafieldsSetInput is used with metafieldsSet mutation
type MetafieldsSetInput struct {
	OwnerID   string `json:"ownerId"`
	Namespace string `json:"namespace"`
	Key       string `json:"key"`
	Type      string `json:"type"`
	Value     string `json:"value"`
}

// MetafieldsSetResult is the data object of MetafieldsSetMutation
type MetafieldsSetResult struct {
	MetafieldsSet struct {
		Metafields []struct {
			Key       string `json:"key"`
			Namespace string `json:"namespace"`
			Value     string `json:"value"`
		} `json:"metafields"`
		UserErrors []apperrors.UserError `json:"userErrors"`
	} `json:"metafieldsSet"`
}

// MetaobjectFieldInput is one field value on a created metaobject
type MetaobjectFieldInput struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// MetaobjectCreateInput is the input of metaobjectCreate
type MetaobjectCreateInput struct {
	Type   string                 `json:"type"`
	Handle string                 `json:"handle,omitempty"`
	Fields []MetaobjectFieldInput `json:"fields"`
}

// MetaobjectCreatePayload is one aliased metaobjectCreate result
type MetaobjectCreatePayload struct {
	Metaobject *struct {
		ID     string `json:"id"`
		Handle string `json:"handle"`
	} `json:"metaobject"`
	UserErrors []apperrors.UserError `json:"userErrors"`
}

// MetaobjectFieldDefinitionInput describes one field of a metaobject definition
type MetaobjectFieldDefinitionInput struct {
	Key      string `json:"key"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Required bool   `json:"required"`
}

// MetaobjectDefinitionCreateInput is the input of metaobjectDefinitionCreate
type MetaobjectDefinitionCreateInput struct {
	Type             string                           `json:"type"`
	Name             string                           `json:"name"`
	DisplayNameKey   string                           `json:"displayNameKey,omitempty"`
	FieldDefinitions []MetaobjectFieldDefinitionInput `json:"fieldDefinitions"`
}

// MetaobjectDefinitionCreateResult is the data object of MetaobjectDefinitionCreateMutation
type MetaobjectDefinitionCreateResult struct {
	MetaobjectDefinitionCreate struct {
		MetaobjectDefinition *struct {
			ID   string `json:"id"`
			Type string `json:"type"`
		} `json:"metaobjectDefinition"`
		UserErrors []apperrors.UserError `json:"userErrors"`
	} `json:"metaobjectDefinitionCreate"`
}

// BatchAlias is the alias of the i-th create in a batch mutation
func BatchAlias(i int) string {
	return fmt.Sprintf("m%d", i)
}

// BuildMetaobjectBatchCreate builds one mutation creating n metaobjects through
// aliased metaobjectCreate fields; variables are named $m0..$m{n-1}.
func BuildMetaobjectBatchCreate(n int) string {
	var params, body strings.Builder
	for i := 0; i < n; i++ {
		alias := BatchAlias(i)
		if i > 0 {
			params.WriteString(", ")
		}
		fmt.Fprintf(&params, "$%s: MetaobjectCreateInput!", alias)
		fmt.Fprintf(&body, "  %s: metaobjectCreate(metaobject: $%s) {\n    metaobject {\n      id\n      handle\n    }\n    userErrors {\n      field\n      message\n      code\n    }\n  }\n", alias, alias)
	}
	return fmt.Sprintf("mutation metaobjectBatchCreate(%s) {\n%s}\n", params.String(), body.String())
}
