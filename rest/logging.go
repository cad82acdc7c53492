package rest

// logRequest logs the outgoing request. call_id correlates the outbound and
// inbound events of one transport call.
func (c *client) logRequest(req *Request, callID string) {
	logEvent := c.logger.Info().
		Str("direction", "outbound").
		Str("method", req.Method).
		Str("url", req.URL).
		Str("call_id", callID)

	if len(req.Headers) > 0 {
		logEvent = logEvent.Int("header_count", len(req.Headers))
	}
	if len(req.Body) > 0 {
		logEvent = logEvent.Int("body_size", len(req.Body))
	}

	logEvent.Msg("REST client request")

	if c.config.LogPayloads {
		c.logRequestPayload(req, callID)
	}
}

// logRequestPayload emits a debug event carrying headers and a bounded body preview.
func (c *client) logRequestPayload(req *Request, callID string) {
	preview, truncated := c.previewPayload(req.Body)

	debugEvent := c.logger.Debug().
		Str("direction", "outbound").
		Str("method", req.Method).
		Str("url", req.URL).
		Str("call_id", callID).
		Int("body_size", len(req.Body)).
		Str("body_truncated", boolString(truncated)).
		Bytes("body_preview", preview)

	if len(req.Headers) > 0 {
		debugEvent = debugEvent.Interface("headers", headerFields(req.Headers))
	}

	debugEvent.Msg("REST client request payload")
}

// logResponse logs the incoming response.
func (c *client) logResponse(resp *Response, callID string) {
	logEvent := c.logger.Info().
		Str("direction", "inbound").
		Str("call_id", callID).
		Int("status", resp.StatusCode).
		Dur("elapsed", resp.Stats.ElapsedTime).
		Int64("attempts", resp.Stats.Attempts)

	if len(resp.Body) > 0 {
		logEvent = logEvent.Int("body_size", len(resp.Body))
	}

	logEvent.Msg("REST client response")

	if c.config.LogPayloads {
		c.logResponsePayload(resp, callID)
	}
}

// logResponsePayload emits a debug event carrying a bounded body preview.
func (c *client) logResponsePayload(resp *Response, callID string) {
	preview, truncated := c.previewPayload(resp.Body)

	c.logger.Debug().
		Str("direction", "inbound").
		Str("call_id", callID).
		Int("status", resp.StatusCode).
		Int("body_size", len(resp.Body)).
		Str("body_truncated", boolString(truncated)).
		Bytes("body_preview", preview).
		Msg("REST client response payload")
}

// logFailure logs a failed transport call with its taxonomy kind.
func (c *client) logFailure(req *Request, callID string, err error) {
	logEvent := c.logger.Error().
		Str("direction", "inbound").
		Str("method", req.Method).
		Str("url", req.URL).
		Str("call_id", callID).
		Err(err)

	if kind, ok := KindOf(err); ok {
		logEvent = logEvent.Str("error_kind", string(kind))
	}

	logEvent.Msg("REST client request failed")
}

// previewPayload bounds a payload to the configured preview size.
func (c *client) previewPayload(body []byte) ([]byte, bool) {
	limit := c.config.MaxPayloadLogBytes
	if limit <= 0 {
		limit = DefaultMaxPayloadLogBytes
	}
	if len(body) > limit {
		return body[:limit], true
	}
	return body, false
}

// headerFields converts an ordered header list into a map for structured
// logging so the sensitive-data filter can mask secret values by name.
// Duplicate names are joined in order.
func headerFields(headers []Header) map[string]any {
	fields := make(map[string]any, len(headers))
	for _, h := range headers {
		if existing, ok := fields[h.Name]; ok {
			fields[h.Name] = existing.(string) + ", " + h.Value
			continue
		}
		fields[h.Name] = h.Value
	}
	return fields
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
