// Package shopifytest provides an in-process Admin GraphQL emulator covering
// the metaobject and metafield operations the garage uses.
package shopifytest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/GKRMP/garage/internal/config"
)

// Metaobject is a stored catalog entry
type Metaobject struct {
	ID     string
	Handle string
	Type   string
	Fields map[string]string
}

// Admin emulates the subset of the Shopify Admin GraphQL API used here
type Admin struct {
	Server *httptest.Server

	mu          sync.Mutex
	metaobjects []Metaobject
	metafields  map[string]string
	definitions map[string]bool
	customers   map[string]bool
	calls       map[string]int
	failures    map[string]string
	status      int
	endless     bool
	nextID      int
	scopes      []string
	holds       map[string]*hold
}

// hold parks requests for one operation until released
type hold struct {
	arrived  chan struct{}
	released chan struct{}
	arrive   sync.Once
	release  sync.Once
}

var operationName = regexp.MustCompile(`^\s*(query|mutation)\s*(\w*)`)

// NewAdmin starts an emulator; callers must Close it
func NewAdmin() *Admin {
	a := &Admin{
		metafields:  map[string]string{},
		definitions: map[string]bool{},
		calls:       map[string]int{},
		failures:    map[string]string{},
		holds:       map[string]*hold{},
		nextID:      1,
	}
	a.Server = httptest.NewServer(http.HandlerFunc(a.serve))
	return a
}

// Close shuts the emulator down
func (a *Admin) Close() {
	a.Server.Close()
}

// Config returns a ShopifyConfig pointing at the emulator
func (a *Admin) Config() config.ShopifyConfig {
	return config.ShopifyConfig{
		ShopDomain:  a.Server.URL,
		AccessToken: "shpat_test",
		APIVersion:  "2025-01",
	}
}

// AddVehicle stores a vehicle metaobject and returns its GID
func (a *Admin) AddVehicle(handle string, fields map[string]string) string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.addLocked("vehicle", handle, fields)
}

func (a *Admin) addLocked(typ, handle string, fields map[string]string) string {
	id := fmt.Sprintf("gid://shopify/Metaobject/%d", a.nextID)
	a.nextID++
	a.metaobjects = append(a.metaobjects, Metaobject{ID: id, Handle: handle, Type: typ, Fields: fields})
	return id
}

// Metaobjects returns a copy of the stored metaobjects
func (a *Admin) Metaobjects() []Metaobject {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]Metaobject, len(a.metaobjects))
	copy(out, a.metaobjects)
	return out
}

// SetMetafield seeds a raw metafield value on an owner
func (a *Admin) SetMetafield(ownerID, namespace, key, value string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.metafields[metafieldKey(ownerID, namespace, key)] = value
}

// Metafield returns a stored raw metafield value
func (a *Admin) Metafield(ownerID, namespace, key string) (string, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	v, ok := a.metafields[metafieldKey(ownerID, namespace, key)]
	return v, ok
}

// RestrictCustomers makes only the given customer GIDs exist
func (a *Admin) RestrictCustomers(gids ...string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.customers = map[string]bool{}
	for _, g := range gids {
		a.customers[g] = true
	}
}

// FailOperation makes an operation answer with a top-level GraphQL error
func (a *Admin) FailOperation(operation, message string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.failures[operation] = message
}

// FailHTTP makes every request answer with the given HTTP status
func (a *Admin) FailHTTP(status int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.status = status
}

// EndlessPages makes metaobject pagination always report another page
func (a *Admin) EndlessPages() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.endless = true
}

// SetScopes sets the access scopes reported for the app installation
func (a *Admin) SetScopes(scopes ...string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.scopes = scopes
}

// Hold parks every request for operation until release is called. arrived is
// closed when the first one comes in. Release is idempotent.
func (a *Admin) Hold(operation string) (arrived <-chan struct{}, release func()) {
	h := &hold{arrived: make(chan struct{}), released: make(chan struct{})}
	a.mu.Lock()
	a.holds[operation] = h
	a.mu.Unlock()
	return h.arrived, func() { h.release.Do(func() { close(h.released) }) }
}

// Calls returns how often an operation was requested
func (a *Admin) Calls(operation string) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.calls[operation]
}

func metafieldKey(ownerID, namespace, key string) string {
	return ownerID + "|" + namespace + "." + key
}

type request struct {
	Query     string                     `json:"query"`
	Variables map[string]json.RawMessage `json:"variables"`
}

func (a *Admin) serve(w http.ResponseWriter, r *http.Request) {
	var req request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad body", http.StatusBadRequest)
		return
	}

	op := "anonymous"
	if m := operationName.FindStringSubmatch(req.Query); m != nil && m[2] != "" {
		op = m[2]
	}

	a.mu.Lock()
	a.calls[op]++
	h := a.holds[op]
	a.mu.Unlock()
	if h != nil {
		h.arrive.Do(func() { close(h.arrived) })
		<-h.released
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.status != 0 {
		w.WriteHeader(a.status)
		return
	}
	if msg, ok := a.failures[op]; ok {
		writeJSON(w, map[string]interface{}{"errors": []map[string]string{{"message": msg}}})
		return
	}

	var data interface{}
	switch op {
	case "getMetaobjects":
		data = a.metaobjectsPage(req.Variables)
	case "getCustomerMetafield":
		data = a.customerMetafield(req.Variables)
	case "metafieldsSet":
		data = a.metafieldsSet(req.Variables)
	case "metaobjectBatchCreate":
		data = a.batchCreate(req.Variables)
	case "getMetaobjectDefinition":
		data = a.definitionByType(req.Variables)
	case "metaobjectDefinitionCreate":
		data = a.definitionCreate(req.Variables)
	case "accessScopes":
		scopes := []map[string]string{}
		for _, h := range a.scopes {
			scopes = append(scopes, map[string]string{"handle": h})
		}
		data = map[string]interface{}{"currentAppInstallation": map[string]interface{}{"accessScopes": scopes}}
	case "anonymous":
		data = map[string]interface{}{"shop": map[string]string{"name": "Test Shop", "myshopifyDomain": "test.myshopify.com"}}
	default:
		writeJSON(w, map[string]interface{}{"errors": []map[string]string{{"message": "unknown operation " + op}}})
		return
	}
	writeJSON(w, map[string]interface{}{"data": data})
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func stringVar(vars map[string]json.RawMessage, name string) string {
	var s string
	if raw, ok := vars[name]; ok {
		json.Unmarshal(raw, &s)
	}
	return s
}

func (a *Admin) metaobjectsPage(vars map[string]json.RawMessage) interface{} {
	typ := stringVar(vars, "type")
	var first int
	json.Unmarshal(vars["first"], &first)
	if first <= 0 {
		first = 50
	}
	offset, _ := strconv.Atoi(stringVar(vars, "after"))

	var matching []Metaobject
	for _, m := range a.metaobjects {
		if m.Type == typ {
			matching = append(matching, m)
		}
	}

	nodes := []map[string]interface{}{}
	end := offset + first
	if end > len(matching) {
		end = len(matching)
	}
	for i := offset; i < end; i++ {
		m := matching[i]
		keys := make([]string, 0, len(m.Fields))
		for k := range m.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		fields := []map[string]interface{}{}
		for _, k := range keys {
			fields = append(fields, map[string]interface{}{"key": k, "value": m.Fields[k]})
		}
		nodes = append(nodes, map[string]interface{}{"id": m.ID, "handle": m.Handle, "fields": fields})
	}

	hasNext := end < len(matching) || a.endless
	return map[string]interface{}{
		"metaobjects": map[string]interface{}{
			"pageInfo": map[string]interface{}{"hasNextPage": hasNext, "endCursor": strconv.Itoa(offset + first)},
			"nodes":    nodes,
		},
	}
}

func (a *Admin) customerExists(gid string) bool {
	return a.customers == nil || a.customers[gid]
}

func (a *Admin) customerMetafield(vars map[string]json.RawMessage) interface{} {
	id := stringVar(vars, "id")
	if !a.customerExists(id) {
		return map[string]interface{}{"customer": nil}
	}
	customer := map[string]interface{}{"id": id, "metafield": nil}
	if v, ok := a.metafields[metafieldKey(id, stringVar(vars, "namespace"), stringVar(vars, "key"))]; ok {
		customer["metafield"] = map[string]interface{}{"id": "gid://shopify/Metafield/1", "type": "json", "value": v, "updatedAt": "2026-01-01T00:00:00Z"}
	}
	return map[string]interface{}{"customer": customer}
}

func (a *Admin) metafieldsSet(vars map[string]json.RawMessage) interface{} {
	var inputs []struct {
		OwnerID   string `json:"ownerId"`
		Namespace string `json:"namespace"`
		Key       string `json:"key"`
		Type      string `json:"type"`
		Value     string `json:"value"`
	}
	json.Unmarshal(vars["metafields"], &inputs)

	metafields := []map[string]string{}
	userErrors := []map[string]interface{}{}
	for i, in := range inputs {
		if !a.customerExists(in.OwnerID) {
			userErrors = append(userErrors, map[string]interface{}{"field": []string{"metafields", strconv.Itoa(i), "ownerId"}, "message": "Owner does not exist", "code": "INVALID"})
			continue
		}
		if in.Type == "json" && !json.Valid([]byte(in.Value)) {
			userErrors = append(userErrors, map[string]interface{}{"field": []string{"metafields", strconv.Itoa(i), "value"}, "message": "Value is invalid JSON", "code": "INVALID_VALUE"})
			continue
		}
		a.metafields[metafieldKey(in.OwnerID, in.Namespace, in.Key)] = in.Value
		metafields = append(metafields, map[string]string{"key": in.Key, "namespace": in.Namespace, "value": in.Value})
	}
	return map[string]interface{}{"metafieldsSet": map[string]interface{}{"metafields": metafields, "userErrors": userErrors}}
}

func (a *Admin) batchCreate(vars map[string]json.RawMessage) interface{} {
	out := map[string]interface{}{}
	aliases := make([]string, 0, len(vars))
	for alias := range vars {
		aliases = append(aliases, alias)
	}
	sort.Slice(aliases, func(i, j int) bool {
		ni, _ := strconv.Atoi(strings.TrimPrefix(aliases[i], "m"))
		nj, _ := strconv.Atoi(strings.TrimPrefix(aliases[j], "m"))
		return ni < nj
	})

	for _, alias := range aliases {
		var in struct {
			Type   string `json:"type"`
			Handle string `json:"handle"`
			Fields []struct {
				Key   string `json:"key"`
				Value string `json:"value"`
			} `json:"fields"`
		}
		json.Unmarshal(vars[alias], &in)

		taken := false
		for _, m := range a.metaobjects {
			if m.Type == in.Type && m.Handle == in.Handle {
				taken = true
				break
			}
		}
		if taken {
			out[alias] = map[string]interface{}{
				"metaobject": nil,
				"userErrors": []map[string]interface{}{{"field": []string{"handle"}, "message": "Handle has already been taken", "code": "TAKEN"}},
			}
			continue
		}
		fields := map[string]string{}
		for _, f := range in.Fields {
			fields[f.Key] = f.Value
		}
		id := a.addLocked(in.Type, in.Handle, fields)
		out[alias] = map[string]interface{}{
			"metaobject": map[string]string{"id": id, "handle": in.Handle},
			"userErrors": []interface{}{},
		}
	}
	return out
}

func (a *Admin) definitionByType(vars map[string]json.RawMessage) interface{} {
	typ := stringVar(vars, "type")
	if !a.definitions[typ] {
		return map[string]interface{}{"metaobjectDefinitionByType": nil}
	}
	return map[string]interface{}{"metaobjectDefinitionByType": map[string]interface{}{
		"id": "gid://shopify/MetaobjectDefinition/1", "type": typ, "name": typ, "fieldDefinitions": []interface{}{},
	}}
}

func (a *Admin) definitionCreate(vars map[string]json.RawMessage) interface{} {
	var in struct {
		Type string `json:"type"`
	}
	json.Unmarshal(vars["definition"], &in)
	a.definitions[in.Type] = true
	return map[string]interface{}{"metaobjectDefinitionCreate": map[string]interface{}{
		"metaobjectDefinition": map[string]string{"id": "gid://shopify/MetaobjectDefinition/1", "type": in.Type},
		"userErrors":           []interface{}{},
	}}
}
