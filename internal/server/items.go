package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Makepad-fr/tada-remote/internal/model"
	"github.com/Makepad-fr/tada-remote/internal/store"
)

type itemRequest struct {
	Label   string `json:"label"`
	Checked bool   `json:"checked"`
}

func abortError(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

func (srv *HTTPServer) collection(c *gin.Context) (string, bool) {
	name := c.Param("collection")
	if err := store.ValidateCollection(name); err != nil {
		abortError(c, http.StatusBadRequest, err.Error())
		return "", false
	}
	return name, true
}

func (srv *HTTPServer) bindItem(c *gin.Context) (model.Item, bool) {
	var req itemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortError(c, http.StatusBadRequest, "invalid body: "+err.Error())
		return model.Item{}, false
	}
	label := strings.TrimSpace(req.Label)
	if label == "" {
		abortError(c, http.StatusBadRequest, "label is required")
		return model.Item{}, false
	}
	return model.Item{Label: label, Checked: req.Checked}, true
}

func (srv *HTTPServer) storeError(c *gin.Context, op string, err error) {
	if errors.Is(err, store.ErrNotFound) {
		abortError(c, http.StatusNotFound, "not found")
		return
	}
	srv.l.Errorf(c.Request.Context(), "%s: %v", op, err)
	abortError(c, http.StatusInternalServerError, "internal error")
}

func (srv *HTTPServer) listItems(c *gin.Context) {
	coll, ok := srv.collection(c)
	if !ok {
		return
	}
	items, err := srv.store.List(c.Request.Context(), coll)
	if err != nil {
		srv.storeError(c, "list", err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (srv *HTTPServer) getItem(c *gin.Context) {
	coll, ok := srv.collection(c)
	if !ok {
		return
	}
	item, err := srv.store.Get(c.Request.Context(), coll, model.ID(c.Param("id")))
	if err != nil {
		srv.storeError(c, "get", err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (srv *HTTPServer) createItem(c *gin.Context) {
	coll, ok := srv.collection(c)
	if !ok {
		return
	}
	in, ok := srv.bindItem(c)
	if !ok {
		return
	}
	item, err := srv.store.Create(c.Request.Context(), coll, in)
	if err != nil {
		srv.storeError(c, "create", err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (srv *HTTPServer) updateItem(c *gin.Context) {
	coll, ok := srv.collection(c)
	if !ok {
		return
	}
	in, ok := srv.bindItem(c)
	if !ok {
		return
	}
	item, err := srv.store.Update(c.Request.Context(), coll, model.ID(c.Param("id")), in)
	if err != nil {
		srv.storeError(c, "update", err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (srv *HTTPServer) deleteItem(c *gin.Context) {
	coll, ok := srv.collection(c)
	if !ok {
		return
	}
	id := model.ID(c.Param("id"))
	if err := srv.store.Remove(c.Request.Context(), coll, id); err != nil {
		srv.storeError(c, "delete", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id})
}
