package lightning_test

import (
	"context"
	"fmt"

	"github.com/simar1998/OrcaSlicer-C3PD/pkg/errors"
	"github.com/simar1998/OrcaSlicer-C3PD/pkg/geometry"
	"github.com/simar1998/OrcaSlicer-C3PD/pkg/lightning"
	"github.com/simar1998/OrcaSlicer-C3PD/pkg/model"
)

func ExampleNew() {
	box := geometry.Polygons{geometry.Rect(geometry.PointMM(0, 0), geometry.PointMM(10, 10))}
	obj := &model.Object{Name: "box"}
	for range 4 {
		obj.Layers = append(obj.Layers, model.Layer{Thickness: geometry.FromMM(0.2), Interior: box})
	}
	obj.Layers = append(obj.Layers, model.Layer{Thickness: geometry.FromMM(0.2), Skin: box})

	s := lightning.DefaultSettings()
	s.SampleSpacing = geometry.FromMM(1)
	g, err := lightning.New(context.Background(), obj, s)
	if err != nil {
		fmt.Println(err)
		return
	}

	oh, _ := g.Overhang(3)
	fmt.Println("layers:", g.LayerCount())
	fmt.Println("overhang under the lid:", oh.Len())

	_, err = g.Layer(5)
	fmt.Println(errors.GetCode(err))
	// Output:
	// layers: 5
	// overhang under the lid: 81
	// INVALID_LAYER
}
