package shopify

// ShopQuery fetches the shop identity, used for connectivity checks
const ShopQuery = `
query {
  shop {
    name
    myshopifyDomain
  }
}
`

// MetaobjectsQuery pages through all metaobjects of one type
const MetaobjectsQuery = `
query getMetaobjects($type: String!, $first: Int!, $after: String) {
  metaobjects(type: $type, first: $first, after: $after) {
    pageInfo {
      hasNextPage
      endCursor
    }
    nodes {
      id
      handle
      fields {
        key
        value
      }
    }
  }
}
`

// CustomerMetafieldQuery fetches a single metafield on a customer
const CustomerMetafieldQuery = `
query getCustomerMetafield($id: ID!, $namespace: String!, $key: String!) {
  customer(id: $id) {
    id
    metafield(namespace: $namespace, key: $key) {
      id
      type
      value
      updatedAt
    }
  }
}
`

// MetaobjectDefinitionByTypeQuery looks up a metaobject definition
const MetaobjectDefinitionByTypeQuery = `
query getMetaobjectDefinition($type: String!) {
  metaobjectDefinitionByType(type: $type) {
    id
    type
    name
    fieldDefinitions {
      key
    }
  }
}
`

// PageInfo is the relay pagination block
type PageInfo struct {
	HasNextPage bool   `json:"hasNextPage"`
	EndCursor   string `json:"endCursor"`
}

// MetaobjectField is one key/value field of a metaobject
type MetaobjectField struct {
	Key   string  `json:"key"`
	Value *string `json:"value"`
}

// MetaobjectNode is a metaobject as returned by MetaobjectsQuery
type MetaobjectNode struct {
	ID     string            `json:"id"`
	Handle string            `json:"handle"`
	Fields []MetaobjectField `json:"fields"`
}

// Field returns the value of a field by key, empty when unset
func (n MetaobjectNode) Field(key string) string {
	for _, f := range n.Fields {
		if f.Key == key && f.Value != nil {
			return *f.Value
		}
	}
	return ""
}

// MetaobjectsResult is the data object of MetaobjectsQuery
type MetaobjectsResult struct {
	Metaobjects struct {
		PageInfo PageInfo         `json:"pageInfo"`
		Nodes    []MetaobjectNode `json:"nodes"`
	} `json:"metaobjects"`
}

// CustomerMetafieldResult is the data object of CustomerMetafieldQuery
type CustomerMetafieldResult struct {
	Customer *struct {
		ID        string `json:"id"`
		Metafield *struct {
			ID        string `json:"id"`
			Type      string `json:"type"`
			Value     string `json:"value"`
			UpdatedAt string `json:"updatedAt"`
		} `json:"metafield"`
	} `json:"customer"`
}

// MetaobjectDefinitionResult is the data object of MetaobjectDefinitionByTypeQuery
type MetaobjectDefinitionResult struct {
	MetaobjectDefinitionByType *struct {
		ID               string `json:"id"`
		Type             string `json:"type"`
		Name             string `json:"name"`
		FieldDefinitions []struct {
			Key string `json:"key"`
		} `json:"fieldDefinitions"`
	} `json:"metaobjectDefinitionByType"`
}
