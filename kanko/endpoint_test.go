package kanko

import (
	"testing"

	"github.com/kbukum/kanko/paging"
)

func TestEndpointURLs(t *testing.T) {
	e := DefaultEndpoint()
	const base = "https://www.chiikinogennki.soumu.go.jp/k-cloud-api/v001/kanko/%E6%B8%A9%E6%B3%89/json"

	if got := e.CategoryURL("温泉"); got != base {
		t.Errorf("CategoryURL = %q", got)
	}
	if got := e.CountURL("温泉"); got != base+"?count=true" {
		t.Errorf("CountURL = %q", got)
	}

	tests := []struct {
		page paging.Page
		want string
	}{
		{paging.Page{Category: "温泉", Offset: 0, Limit: 50}, base + "?limit=50&skip=0"},
		{paging.Page{Category: "温泉", Offset: 100, Limit: 50}, base + "?limit=50&skip=100"},
	}
	for _, tt := range tests {
		if got := e.PageURL(tt.page); got != tt.want {
			t.Errorf("PageURL(%+v) = %q, want %q", tt.page, got, tt.want)
		}
	}
}

func TestEndpointCustom(t *testing.T) {
	tests := []struct {
		name     string
		endpoint Endpoint
		category string
		want     string
	}{
		{"zero value uses defaults", Endpoint{}, "x", DefaultBaseURL + "/k-cloud-api/v001/kanko/x/json"},
		{"trailing slash trimmed", Endpoint{BaseURL: "http://127.0.0.1:8080/"}, "x", "http://127.0.0.1:8080/k-cloud-api/v001/kanko/x/json"},
		{"version and format", Endpoint{BaseURL: "http://h", APIVersion: "v002", Format: "xml"}, "x", "http://h/k-cloud-api/v002/kanko/x/xml"},
		{"slash escaped", Endpoint{BaseURL: "http://h"}, "a/b", "http://h/k-cloud-api/v001/kanko/a%2Fb/json"},
		{"space escaped", Endpoint{BaseURL: "http://h"}, "a b", "http://h/k-cloud-api/v001/kanko/a%20b/json"},
		{"sub-delimiters escaped", Endpoint{BaseURL: "http://h"}, "a+b&c=d@e:f$", "http://h/k-cloud-api/v001/kanko/a%2Bb%26c%3Dd%40e%3Af%24/json"},
		{"unreserved kept", Endpoint{BaseURL: "http://h"}, "a-b_c.d~e", "http://h/k-cloud-api/v001/kanko/a-b_c.d~e/json"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.endpoint.CategoryURL(tt.category); got != tt.want {
				t.Errorf("CategoryURL = %q, want %q", got, tt.want)
			}
		})
	}
}
