package httpclient

// Request is one outbound call. Method defaults to GET. Path is joined onto
// Config.BaseURL unless it is an absolute URL. Headers override the
// client's defaults and Query is merged into any query already in Path.
type Request struct {
	Method  string
	Path    string
	Headers map[string]string
	Query   map[string]string
}

// Response is a fully read response. Headers keep the first value of each.
type Response struct {
	StatusCode int
	Headers    map[string]string
	Body       []byte
}

func (r *Response) IsSuccess() bool { return r.StatusCode >= 200 && r.StatusCode < 300 }

func (r *Response) IsError() bool { return r.StatusCode >= 400 }
