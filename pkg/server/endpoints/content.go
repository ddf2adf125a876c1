package endpoints

import (
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/gorilla/mux"

	"github.com/smokinadorabulls/kennel-cms/pkg/content"
	"github.com/smokinadorabulls/kennel-cms/pkg/document"
	"github.com/smokinadorabulls/kennel-cms/pkg/server"
)

// Response is the envelope of every successful content response
type Response struct {
	Data interface{}            `json:"data"`
	Meta map[string]interface{} `json:"meta"`
}

// RegisterContentEndpoints registers the read-only content API
func RegisterContentEndpoints(s *server.Server) {
	s.Router.HandleFunc("/api/{uid}", handleFind(s)).Methods("GET")
	s.Router.HandleFunc("/api/{uid}/{documentId}", handleFindOne(s)).Methods("GET")
}

func handleFind(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ct, ok := lookupContentType(s, w, r)
		if !ok {
			return
		}
		if !authorize(s, w, r, content.Action(ct.UID, content.OpFind)) {
			return
		}

		docs, err := s.Store.FindMany(r.Context(), ct.UID, nil)
		if err != nil {
			internalError(s, w, err)
			return
		}
		published := make([]document.Document, 0, len(docs))
		for _, doc := range docs {
			if doc.Status == document.StatusPublished {
				published = append(published, doc)
			}
		}

		html := wantsHTML(r)
		if ct.Kind == document.KindSingle {
			if len(published) == 0 {
				respondWithError(w, http.StatusNotFound, "Not Found")
				return
			}
			data, err := renderDocument(ct, published[0], html)
			if err != nil {
				internalError(s, w, err)
				return
			}
			respondWithJSON(w, http.StatusOK, Response{Data: data, Meta: map[string]interface{}{}})
			return
		}

		data := make([]map[string]interface{}, 0, len(published))
		for _, doc := range published {
			rendered, err := renderDocument(ct, doc, html)
			if err != nil {
				internalError(s, w, err)
				return
			}
			data = append(data, rendered)
		}
		respondWithJSON(w, http.StatusOK, Response{
			Data: data,
			Meta: map[string]interface{}{
				"pagination": map[string]int{"total": len(data)},
			},
		})
	}
}

func handleFindOne(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ct, ok := lookupContentType(s, w, r)
		if !ok {
			return
		}
		if !authorize(s, w, r, content.Action(ct.UID, content.OpFindOne)) {
			return
		}

		documentID, err := url.PathUnescape(mux.Vars(r)["documentId"])
		if err != nil {
			respondWithError(w, http.StatusNotFound, "Not Found")
			return
		}
		docs, err := s.Store.FindMany(r.Context(), ct.UID, nil)
		if err != nil {
			internalError(s, w, err)
			return
		}
		for _, doc := range docs {
			if doc.DocumentID != documentID || doc.Status != document.StatusPublished {
				continue
			}
			data, err := renderDocument(ct, doc, wantsHTML(r))
			if err != nil {
				internalError(s, w, err)
				return
			}
			respondWithJSON(w, http.StatusOK, Response{Data: data, Meta: map[string]interface{}{}})
			return
		}
		respondWithError(w, http.StatusNotFound, "Not Found")
	}
}

// lookupContentType resolves {uid}; only api:: types are exposed
func lookupContentType(s *server.Server, w http.ResponseWriter, r *http.Request) (document.ContentType, bool) {
	uid, err := url.PathUnescape(mux.Vars(r)["uid"])
	if err == nil && content.IsAPI(uid) {
		ct, lookupErr := s.Schema.Lookup(uid)
		if lookupErr == nil {
			return ct, true
		}
		if !errors.Is(lookupErr, document.ErrUnknownCollection) {
			internalError(s, w, lookupErr)
			return document.ContentType{}, false
		}
	}
	respondWithError(w, http.StatusNotFound, "Not Found")
	return document.ContentType{}, false
}

func authorize(s *server.Server, w http.ResponseWriter, r *http.Request, action string) bool {
	allowed, err := isPublicAllowedTo(r.Context(), s.Store, s.PublicRoleType, action)
	if err != nil {
		internalError(s, w, err)
		return false
	}
	if !allowed {
		respondWithError(w, http.StatusForbidden, "Forbidden")
		return false
	}
	return true
}

func internalError(s *server.Server, w http.ResponseWriter, err error) {
	s.Logger.Error("content request failed", "error", err)
	respondWithError(w, http.StatusInternalServerError, "Internal Server Error")
}

func wantsHTML(r *http.Request) bool {
	return r.URL.Query().Get("format") == "html"
}

// renderDocument flattens a document into its API shape:
// {id, documentId, ...fields, createdAt, updatedAt, publishedAt}
func renderDocument(ct document.ContentType, doc document.Document, html bool) (map[string]interface{}, error) {
	out := make(map[string]interface{}, len(doc.Data)+5)
	for k, v := range doc.Data {
		out[k] = v
	}
	if html {
		for _, field := range ct.RichText {
			source, ok := out[field].(string)
			if !ok {
				continue
			}
			rendered, err := content.RenderRichText(source)
			if err != nil {
				return nil, err
			}
			out[field] = rendered
		}
	}

	out["id"] = doc.ID
	out["documentId"] = doc.DocumentID
	out["createdAt"] = doc.CreatedAt.UTC().Format(time.RFC3339Nano)
	out["updatedAt"] = doc.UpdatedAt.UTC().Format(time.RFC3339Nano)
	if doc.PublishedAt != nil {
		out["publishedAt"] = doc.PublishedAt.UTC().Format(time.RFC3339Nano)
	} else {
		out["publishedAt"] = nil
	}
	return out, nil
}
