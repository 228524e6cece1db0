package cache

import (
	"os"
	"path/filepath"
	"time"

	"github.com/gogo/protobuf/proto"
	"github.com/pkg/errors"
)

// Entry describes a cached rendering.
type Entry struct {
	Satellite      string  `protobuf:"bytes,1,opt,name=satellite,proto3" json:"satellite,omitempty"`
	Longitude      float64 `protobuf:"fixed64,2,opt,name=longitude,proto3" json:"longitude,omitempty"`
	Height         float64 `protobuf:"fixed64,3,opt,name=height,proto3" json:"height,omitempty"`
	Resolution     int32   `protobuf:"varint,4,opt,name=resolution,proto3" json:"resolution,omitempty"`
	Interpolation  string  `protobuf:"bytes,5,opt,name=interpolation,proto3" json:"interpolation,omitempty"`
	Supersample    int32   `protobuf:"varint,6,opt,name=supersample,proto3" json:"supersample,omitempty"`
	Background     string  `protobuf:"bytes,7,opt,name=background,proto3" json:"background,omitempty"`
	Projection     string  `protobuf:"bytes,8,opt,name=projection,proto3" json:"projection,omitempty"`
	Source         string  `protobuf:"bytes,9,opt,name=source,proto3" json:"source,omitempty"`
	SourceSize     int64   `protobuf:"varint,10,opt,name=source_size,json=sourceSize,proto3" json:"source_size,omitempty"`
	SourceModified int64   `protobuf:"varint,11,opt,name=source_modified,json=sourceModified,proto3" json:"source_modified,omitempty"`
	Created        int64   `protobuf:"varint,12,opt,name=created,proto3" json:"created,omitempty"`
	Size           int64   `protobuf:"varint,13,opt,name=size,proto3" json:"size,omitempty"`
	Sweep          string  `protobuf:"bytes,14,opt,name=sweep,proto3" json:"sweep,omitempty"`
}

func (m *Entry) Reset()         { *m = Entry{} }
func (m *Entry) String() string { return proto.CompactTextString(m) }
func (*Entry) ProtoMessage()    {}

// SetSource records path, size and modification time of the source image.
func (m *Entry) SetSource(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return errors.Wrap(err, "source path")
	}
	fi, err := os.Stat(abs)
	if err != nil {
		return err
	}
	m.Source = abs
	m.SourceSize = fi.Size()
	m.SourceModified = fi.ModTime().UnixNano()
	return nil
}

func (m *Entry) CreatedTime() time.Time {
	return time.Unix(0, m.Created)
}
