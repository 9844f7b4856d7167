package client

import (
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/fewlinesco/rampsdk/schema"
)

// expandPath substitutes {name} placeholders in the endpoint URL. Values
// before the query separator are path-escaped, those after it
// query-escaped.
func expandPath(ep *schema.Endpoint, params map[string]string) (string, error) {
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if !ep.PathParams.Has(name) {
			return "", fmt.Errorf("Unexpected path parameter: '%s'. Allowed parameters: %s",
				name, strings.Join(ep.PathParams.Names(), ", "))
		}
	}

	for _, name := range ep.Placeholders() {
		if params[name] == "" {
			return "", fmt.Errorf("Missing required path parameter: %s", name)
		}
	}

	path, query, hasQuery := strings.Cut(ep.URL, "?")
	for name, value := range params {
		path = strings.ReplaceAll(path, "{"+name+"}", url.PathEscape(value))
		query = strings.ReplaceAll(query, "{"+name+"}", url.QueryEscape(value))
	}
	if hasQuery {
		return path + "?" + query, nil
	}
	return path, nil
}

// encodeQuery renders query parameters. Slices repeat their key; objects
// are sent as JSON.
func encodeQuery(query map[string]interface{}) (string, error) {
	values := url.Values{}
	for _, key := range schema.SortedKeys(query) {
		v := query[key]
		if v == nil {
			continue
		}
		if items, ok := schema.ArrayOf(v); ok {
			for _, item := range items {
				s, err := queryValue(item)
				if err != nil {
					return "", fmt.Errorf("query parameter %s: %w", key, err)
				}
				values.Add(key, s)
			}
			continue
		}
		s, err := queryValue(v)
		if err != nil {
			return "", fmt.Errorf("query parameter %s: %w", key, err)
		}
		values.Add(key, s)
	}
	return values.Encode(), nil
}

func queryValue(v interface{}) (string, error) {
	switch t := v.(type) {
	case string:
		return t, nil
	case bool:
		return strconv.FormatBool(t), nil
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), nil
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32), nil
	case json.Number:
		return t.String(), nil
	}

	switch schema.KindOf(v) {
	case schema.Number, schema.String, schema.Boolean:
		return fmt.Sprint(v), nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// joinURL appends a relative endpoint path and an encoded query to base.
func joinURL(base, path, query string) string {
	u := strings.TrimRight(base, "/") + path
	if query == "" {
		return u
	}
	if strings.Contains(u, "?") {
		return u + "&" + query
	}
	return u + "?" + query
}
