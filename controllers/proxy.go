package controllers

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// ProxyController forwards the thin account/admin shell routes upstream
// verbatim. These surfaces have no local state; the storefront only frames
// them.
type ProxyController struct {
	baseURL string
	client  *http.Client
}

func NewProxyController(baseURL string, timeout time.Duration) *ProxyController {
	return &ProxyController{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// Forward proxies the request to prefix + wildcard path.
func (p *ProxyController) Forward(prefix string) gin.HandlerFunc {
	return func(c *gin.Context) {
		upstreamURL := p.baseURL + prefix + c.Param("path")
		if raw := c.Request.URL.RawQuery; raw != "" {
			upstreamURL += "?" + raw
		}

		req, err := http.NewRequestWithContext(c.Request.Context(), c.Request.Method, upstreamURL, c.Request.Body)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		for k, v := range c.Request.Header {
			for _, vv := range v {
				req.Header.Add(k, vv)
			}
		}

		resp, err := p.client.Do(req)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": "upstream request failed"})
			return
		}
		defer resp.Body.Close()

		for k, v := range resp.Header {
			for _, vv := range v {
				c.Writer.Header().Add(k, vv)
			}
		}
		c.Writer.WriteHeader(resp.StatusCode)
		if _, err := io.Copy(c.Writer, resp.Body); err != nil {
			return
		}
	}
}
