package fsntfs

import (
	"fmt"

	"github.com/libyal-go/fsntfs/errors"
	"github.com/libyal-go/fsntfs/handle"
	"github.com/libyal-go/fsntfs/native"
)

// AttributeType identifies an MFT attribute type.
type AttributeType uint32

const (
	AttributeStandardInformation AttributeType = 0x10
	AttributeList                AttributeType = 0x20
	AttributeFileName            AttributeType = 0x30
	AttributeObjectIdentifier    AttributeType = 0x40
	AttributeSecurityDescriptor  AttributeType = 0x50
	AttributeVolumeName          AttributeType = 0x60
	AttributeVolumeInformation   AttributeType = 0x70
	AttributeData                AttributeType = 0x80
	AttributeIndexRoot           AttributeType = 0x90
	AttributeIndexAllocation     AttributeType = 0xa0
	AttributeBitmap              AttributeType = 0xb0
	AttributeReparsePoint        AttributeType = 0xc0
	AttributeLoggedUtilityStream AttributeType = 0x100
)

func (t AttributeType) String() string {
	switch t {
	case AttributeStandardInformation:
		return "$STANDARD_INFORMATION"
	case AttributeList:
		return "$ATTRIBUTE_LIST"
	case AttributeFileName:
		return "$FILE_NAME"
	case AttributeObjectIdentifier:
		return "$OBJECT_ID"
	case AttributeSecurityDescriptor:
		return "$SECURITY_DESCRIPTOR"
	case AttributeVolumeName:
		return "$VOLUME_NAME"
	case AttributeVolumeInformation:
		return "$VOLUME_INFORMATION"
	case AttributeData:
		return "$DATA"
	case AttributeIndexRoot:
		return "$INDEX_ROOT"
	case AttributeIndexAllocation:
		return "$INDEX_ALLOCATION"
	case AttributeBitmap:
		return "$BITMAP"
	case AttributeReparsePoint:
		return "$REPARSE_POINT"
	case AttributeLoggedUtilityStream:
		return "$LOGGED_UTILITY_STREAM"
	default:
		return fmt.Sprintf("unknown(0x%x)", uint32(t))
	}
}

// Attribute is one MFT attribute of a file entry.
type Attribute struct {
	vol  *Volume
	node *handle.Node
}

func freeAttribute(d native.Dispatch, ref *native.Ref, errOut *native.Ref) int {
	return d.AttributeFree(ref, errOut)
}

func (a *Attribute) dispatch() native.Dispatch {
	return a.vol.dispatch()
}

// Close releases the attribute handle. Closing twice is a no-op.
func (a *Attribute) Close() error {
	return a.node.Release()
}

// Type returns the attribute type.
func (a *Attribute) Type() (AttributeType, error) {
	d := a.dispatch()
	var typ uint32
	err := a.node.With(func(ref native.Ref) error {
		var errRef native.Ref
		if d.AttributeGetType(ref, &typ, &errRef) != native.StatusOK {
			return native.Translate(d, errors.OpAccess, errRef)
		}
		return nil
	})
	return AttributeType(typ), err
}

// Name returns the attribute name. Unnamed attributes (the common case)
// return an empty string.
func (a *Attribute) Name() (string, error) {
	d := a.dispatch()
	var name string
	err := a.node.With(func(ref native.Ref) error {
		s, err := native.GetString(d, errors.OpAccess,
			func(size *uint64, errOut *native.Ref) int {
				return d.AttributeGetUTF8NameSize(ref, size, errOut)
			},
			func(buf []byte, errOut *native.Ref) int {
				return d.AttributeGetUTF8Name(ref, buf, errOut)
			})
		if err != nil {
			return err
		}
		name = s
		return nil
	})
	return name, err
}

// DataSize returns the size of the attribute's resident data.
func (a *Attribute) DataSize() (uint64, error) {
	d := a.dispatch()
	var size uint64
	err := a.node.With(func(ref native.Ref) error {
		var errRef native.Ref
		if d.AttributeGetDataSize(ref, &size, &errRef) != native.StatusOK {
			return native.Translate(d, errors.OpAccess, errRef)
		}
		return nil
	})
	return size, err
}

// Data copies the attribute's data into a fresh slice. Both native calls run
// under one lock hold so the size cannot change between them.
func (a *Attribute) Data() ([]byte, error) {
	d := a.dispatch()
	var data []byte
	err := a.node.With(func(ref native.Ref) error {
		var size uint64
		var errRef native.Ref
		if d.AttributeGetDataSize(ref, &size, &errRef) != native.StatusOK {
			return native.Translate(d, errors.OpAccess, errRef)
		}
		if size == 0 {
			data = []byte{}
			return nil
		}
		buf := make([]byte, size)
		errRef = 0
		if d.AttributeCopyData(ref, buf, &errRef) != native.StatusOK {
			return native.Translate(d, errors.OpAccess, errRef)
		}
		data = buf
		return nil
	})
	return data, err
}
