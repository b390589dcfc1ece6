package handler

import "net/http"

// APIRootResponse lists the absolute URL of every collection.
type APIRootResponse struct {
	Topics   string `json:"topics"`
	Blogs    string `json:"blogs"`
	Comments string `json:"comments"`
}

// HandleAPIRoot handles GET /.
func HandleAPIRoot(w http.ResponseWriter, r *http.Request) {
	l := newLinker(r)
	writeJSON(w, http.StatusOK, APIRootResponse{
		Topics:   l.collection("topics"),
		Blogs:    l.collection("blogs"),
		Comments: l.collection("comments"),
	})
}
