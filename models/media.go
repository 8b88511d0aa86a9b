package models

// Media is an uploaded or recorded file held in memory.
type Media struct {
	Name     string
	MIMEType string
	Data     []byte
}

func (m *Media) Size() int64 {
	if m == nil {
		return 0
	}
	return int64(len(m.Data))
}
