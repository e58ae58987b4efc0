package pixels

import "largeimage/pkg/addressing"

// Accessors derives the coordinate shorthands from an image's linear core.
// Omitted axes are 0. Embed it in an image type and initialize it with
// NewAccessors(img) once the image is built.
type Accessors struct {
	img Image
}

// NewAccessors binds the shorthands to img.
func NewAccessors(img Image) Accessors {
	return Accessors{img: img}
}

func (a Accessors) shape() addressing.Shape { return a.img.Shape() }

// Boolean view.

func (a Accessors) PixelXYBoolean(x, y int) (bool, error) {
	return a.img.PixelBoolean(a.shape().IndexXY(x, y))
}

func (a Accessors) PixelXYZBoolean(x, y, z int) (bool, error) {
	return a.img.PixelBoolean(a.shape().IndexXYZ(x, y, z))
}

func (a Accessors) PixelXYBBoolean(x, y, b int) (bool, error) {
	return a.img.PixelBoolean(a.shape().IndexXYB(x, y, b))
}

func (a Accessors) PixelXYTBoolean(x, y, t int) (bool, error) {
	return a.img.PixelBoolean(a.shape().IndexXYT(x, y, t))
}

func (a Accessors) PixelXYZTBoolean(x, y, z, t int) (bool, error) {
	return a.img.PixelBoolean(a.shape().IndexXYZT(x, y, z, t))
}

func (a Accessors) PixelXYZBBoolean(x, y, z, b int) (bool, error) {
	return a.img.PixelBoolean(a.shape().IndexXYZB(x, y, z, b))
}

func (a Accessors) PixelXYTBBoolean(x, y, t, b int) (bool, error) {
	return a.img.PixelBoolean(a.shape().IndexXYTB(x, y, t, b))
}

func (a Accessors) PixelXYZTBBoolean(x, y, z, t, b int) (bool, error) {
	return a.img.PixelBoolean(a.shape().IndexXYZTB(x, y, z, t, b))
}

func (a Accessors) SetPixelXYBoolean(x, y int, v bool) error {
	return a.img.SetPixelBoolean(a.shape().IndexXY(x, y), v)
}

func (a Accessors) SetPixelXYZBoolean(x, y, z int, v bool) error {
	return a.img.SetPixelBoolean(a.shape().IndexXYZ(x, y, z), v)
}

func (a Accessors) SetPixelXYBBoolean(x, y, b int, v bool) error {
	return a.img.SetPixelBoolean(a.shape().IndexXYB(x, y, b), v)
}

func (a Accessors) SetPixelXYTBoolean(x, y, t int, v bool) error {
	return a.img.SetPixelBoolean(a.shape().IndexXYT(x, y, t), v)
}

func (a Accessors) SetPixelXYZTBoolean(x, y, z, t int, v bool) error {
	return a.img.SetPixelBoolean(a.shape().IndexXYZT(x, y, z, t), v)
}

func (a Accessors) SetPixelXYZBBoolean(x, y, z, b int, v bool) error {
	return a.img.SetPixelBoolean(a.shape().IndexXYZB(x, y, z, b), v)
}

func (a Accessors) SetPixelXYTBBoolean(x, y, t, b int, v bool) error {
	return a.img.SetPixelBoolean(a.shape().IndexXYTB(x, y, t, b), v)
}

func (a Accessors) SetPixelXYZTBBoolean(x, y, z, t, b int, v bool) error {
	return a.img.SetPixelBoolean(a.shape().IndexXYZTB(x, y, z, t, b), v)
}

// Byte view.

func (a Accessors) PixelXYByte(x, y int) (uint8, error) {
	return a.img.PixelByte(a.shape().IndexXY(x, y))
}

func (a Accessors) PixelXYZByte(x, y, z int) (uint8, error) {
	return a.img.PixelByte(a.shape().IndexXYZ(x, y, z))
}

func (a Accessors) PixelXYBByte(x, y, b int) (uint8, error) {
	return a.img.PixelByte(a.shape().IndexXYB(x, y, b))
}

func (a Accessors) PixelXYTByte(x, y, t int) (uint8, error) {
	return a.img.PixelByte(a.shape().IndexXYT(x, y, t))
}

func (a Accessors) PixelXYZTByte(x, y, z, t int) (uint8, error) {
	return a.img.PixelByte(a.shape().IndexXYZT(x, y, z, t))
}

func (a Accessors) PixelXYZBByte(x, y, z, b int) (uint8, error) {
	return a.img.PixelByte(a.shape().IndexXYZB(x, y, z, b))
}

func (a Accessors) PixelXYTBByte(x, y, t, b int) (uint8, error) {
	return a.img.PixelByte(a.shape().IndexXYTB(x, y, t, b))
}

func (a Accessors) PixelXYZTBByte(x, y, z, t, b int) (uint8, error) {
	return a.img.PixelByte(a.shape().IndexXYZTB(x, y, z, t, b))
}

func (a Accessors) SetPixelXYByte(x, y int, v uint8) error {
	return a.img.SetPixelByte(a.shape().IndexXY(x, y), v)
}

func (a Accessors) SetPixelXYZByte(x, y, z int, v uint8) error {
	return a.img.SetPixelByte(a.shape().IndexXYZ(x, y, z), v)
}

func (a Accessors) SetPixelXYBByte(x, y, b int, v uint8) error {
	return a.img.SetPixelByte(a.shape().IndexXYB(x, y, b), v)
}

func (a Accessors) SetPixelXYTByte(x, y, t int, v uint8) error {
	return a.img.SetPixelByte(a.shape().IndexXYT(x, y, t), v)
}

func (a Accessors) SetPixelXYZTByte(x, y, z, t int, v uint8) error {
	return a.img.SetPixelByte(a.shape().IndexXYZT(x, y, z, t), v)
}

func (a Accessors) SetPixelXYZBByte(x, y, z, b int, v uint8) error {
	return a.img.SetPixelByte(a.shape().IndexXYZB(x, y, z, b), v)
}

func (a Accessors) SetPixelXYTBByte(x, y, t, b int, v uint8) error {
	return a.img.SetPixelByte(a.shape().IndexXYTB(x, y, t, b), v)
}

func (a Accessors) SetPixelXYZTBByte(x, y, z, t, b int, v uint8) error {
	return a.img.SetPixelByte(a.shape().IndexXYZTB(x, y, z, t, b), v)
}

// Int view.

func (a Accessors) PixelXYInt(x, y int) (int32, error) {
	return a.img.PixelInt(a.shape().IndexXY(x, y))
}

func (a Accessors) PixelXYZInt(x, y, z int) (int32, error) {
	return a.img.PixelInt(a.shape().IndexXYZ(x, y, z))
}

func (a Accessors) PixelXYBInt(x, y, b int) (int32, error) {
	return a.img.PixelInt(a.shape().IndexXYB(x, y, b))
}

func (a Accessors) PixelXYTInt(x, y, t int) (int32, error) {
	return a.img.PixelInt(a.shape().IndexXYT(x, y, t))
}

func (a Accessors) PixelXYZTInt(x, y, z, t int) (int32, error) {
	return a.img.PixelInt(a.shape().IndexXYZT(x, y, z, t))
}

func (a Accessors) PixelXYZBInt(x, y, z, b int) (int32, error) {
	return a.img.PixelInt(a.shape().IndexXYZB(x, y, z, b))
}

func (a Accessors) PixelXYTBInt(x, y, t, b int) (int32, error) {
	return a.img.PixelInt(a.shape().IndexXYTB(x, y, t, b))
}

func (a Accessors) PixelXYZTBInt(x, y, z, t, b int) (int32, error) {
	return a.img.PixelInt(a.shape().IndexXYZTB(x, y, z, t, b))
}

func (a Accessors) SetPixelXYInt(x, y int, v int32) error {
	return a.img.SetPixelInt(a.shape().IndexXY(x, y), v)
}

func (a Accessors) SetPixelXYZInt(x, y, z int, v int32) error {
	return a.img.SetPixelInt(a.shape().IndexXYZ(x, y, z), v)
}

func (a Accessors) SetPixelXYBInt(x, y, b int, v int32) error {
	return a.img.SetPixelInt(a.shape().IndexXYB(x, y, b), v)
}

func (a Accessors) SetPixelXYTInt(x, y, t int, v int32) error {
	return a.img.SetPixelInt(a.shape().IndexXYT(x, y, t), v)
}

func (a Accessors) SetPixelXYZTInt(x, y, z, t int, v int32) error {
	return a.img.SetPixelInt(a.shape().IndexXYZT(x, y, z, t), v)
}

func (a Accessors) SetPixelXYZBInt(x, y, z, b int, v int32) error {
	return a.img.SetPixelInt(a.shape().IndexXYZB(x, y, z, b), v)
}

func (a Accessors) SetPixelXYTBInt(x, y, t, b int, v int32) error {
	return a.img.SetPixelInt(a.shape().IndexXYTB(x, y, t, b), v)
}

func (a Accessors) SetPixelXYZTBInt(x, y, z, t, b int, v int32) error {
	return a.img.SetPixelInt(a.shape().IndexXYZTB(x, y, z, t, b), v)
}

// Double view.

func (a Accessors) PixelXYDouble(x, y int) (float64, error) {
	return a.img.PixelDouble(a.shape().IndexXY(x, y))
}

func (a Accessors) PixelXYZDouble(x, y, z int) (float64, error) {
	return a.img.PixelDouble(a.shape().IndexXYZ(x, y, z))
}

func (a Accessors) PixelXYBDouble(x, y, b int) (float64, error) {
	return a.img.PixelDouble(a.shape().IndexXYB(x, y, b))
}

func (a Accessors) PixelXYTDouble(x, y, t int) (float64, error) {
	return a.img.PixelDouble(a.shape().IndexXYT(x, y, t))
}

func (a Accessors) PixelXYZTDouble(x, y, z, t int) (float64, error) {
	return a.img.PixelDouble(a.shape().IndexXYZT(x, y, z, t))
}

func (a Accessors) PixelXYZBDouble(x, y, z, b int) (float64, error) {
	return a.img.PixelDouble(a.shape().IndexXYZB(x, y, z, b))
}

func (a Accessors) PixelXYTBDouble(x, y, t, b int) (float64, error) {
	return a.img.PixelDouble(a.shape().IndexXYTB(x, y, t, b))
}

func (a Accessors) PixelXYZTBDouble(x, y, z, t, b int) (float64, error) {
	return a.img.PixelDouble(a.shape().IndexXYZTB(x, y, z, t, b))
}

func (a Accessors) SetPixelXYDouble(x, y int, v float64) error {
	return a.img.SetPixelDouble(a.shape().IndexXY(x, y), v)
}

func (a Accessors) SetPixelXYZDouble(x, y, z int, v float64) error {
	return a.img.SetPixelDouble(a.shape().IndexXYZ(x, y, z), v)
}

func (a Accessors) SetPixelXYBDouble(x, y, b int, v float64) error {
	return a.img.SetPixelDouble(a.shape().IndexXYB(x, y, b), v)
}

func (a Accessors) SetPixelXYTDouble(x, y, t int, v float64) error {
	return a.img.SetPixelDouble(a.shape().IndexXYT(x, y, t), v)
}

func (a Accessors) SetPixelXYZTDouble(x, y, z, t int, v float64) error {
	return a.img.SetPixelDouble(a.shape().IndexXYZT(x, y, z, t), v)
}

func (a Accessors) SetPixelXYZBDouble(x, y, z, b int, v float64) error {
	return a.img.SetPixelDouble(a.shape().IndexXYZB(x, y, z, b), v)
}

func (a Accessors) SetPixelXYTBDouble(x, y, t, b int, v float64) error {
	return a.img.SetPixelDouble(a.shape().IndexXYTB(x, y, t, b), v)
}

func (a Accessors) SetPixelXYZTBDouble(x, y, z, t, b int, v float64) error {
	return a.img.SetPixelDouble(a.shape().IndexXYZTB(x, y, z, t, b), v)
}
