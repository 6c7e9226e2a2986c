package wechat

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"sort"

	"paygate-service/internal/pkg/exceptions"
)

// The v2 wire format is a single <xml> element holding flat key/value
// children, values wrapped in CDATA.

func encodeXMLMap(params map[string]string) []byte {
	keys := make([]string, 0, len(params))
	for key := range params {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var buffer bytes.Buffer
	buffer.WriteString("<xml>")
	for _, key := range keys {
		buffer.WriteString("<" + key + "><![CDATA[")
		buffer.WriteString(params[key])
		buffer.WriteString("]]></" + key + ">")
	}
	buffer.WriteString("</xml>")
	return buffer.Bytes()
}

func decodeXMLMap(data []byte) (map[string]string, error) {
	decoder := xml.NewDecoder(bytes.NewReader(data))
	params := make(map[string]string)

	depth := 0
	var field string
	var value bytes.Buffer
	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, exceptions.ErrCannotParseJSON(fmt.Errorf("malformed xml: %w", err))
		}

		switch t := token.(type) {
		case xml.StartElement:
			depth++
			if depth == 2 {
				field = t.Name.Local
				value.Reset()
			}
		case xml.CharData:
			if depth == 2 {
				value.Write(t)
			}
		case xml.EndElement:
			if depth == 2 && field != "" {
				params[field] = value.String()
				field = ""
			}
			depth--
		}
	}

	if len(params) == 0 {
		return nil, exceptions.ErrCannotParseJSON(fmt.Errorf("empty xml document"))
	}
	return params, nil
}
