// Package io provides JSON import of sliced prints and JSON export and
// import of generated lightning forests.
//
// # Print Format
//
// A print lists objects; each object lists its layers bottom to top. All
// lengths are in millimetres and every polygon is a list of [x, y] points
// with an implicit closing edge:
//
//	{
//	  "objects": [
//	    {
//	      "name": "bracket",
//	      "layers": [
//	        {
//	          "thickness": 0.2,
//	          "interior": [[[0, 0], [10, 0], [10, 10], [0, 10]]],
//	          "walls": [],
//	          "skin": []
//	        }
//	      ]
//	    }
//	  ]
//	}
//
// Interior is the infill-eligible area. Walls and skin are the solid
// material of the layer; a layer that has them supports only the overhang
// underneath them.
//
// Use [ImportPrint] to read a print from a file path, or [ReadPrint] to read
// from any io.Reader. Both validate the result (names, thicknesses, rings,
// coordinate range).
//
// # Forest Format
//
// [WriteForests] writes the forests of one or more generators:
//
//	{
//	  "objects": [
//	    {
//	      "name": "bracket",
//	      "run_id": "8c0e...",
//	      "settings": {"supporting_radius": 2, ...},
//	      "layers": [
//	        {
//	          "layer": 12,
//	          "thickness": 0.2,
//	          "interior": [...],
//	          "overhang": {"spacing": 0.4, "cells": [[1.2, 3.6], ...]},
//	          "nodes": [
//	            {"id": 0, "parent": null, "x": 1.2, "y": 3.6, "since_need": 0, "ground": [0, 3.6]},
//	            {"id": 1, "parent": 0, "x": 1.6, "y": 3.6, "since_need": 0.2}
//	          ]
//	        }
//	      ]
//	    }
//	  ]
//	}
//
// Nodes are listed in pre-order so every parent precedes its children.
// [ReadForests] and [ImportForests] read the format back; forests can be
// rebuilt with forest.Restore.
package io
