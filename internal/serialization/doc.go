// Package serialization saves and loads named arrays in the SafeTensors
// format, so trained parameters can be checkpointed and restored.
//
//	Format Structure:
//	  [8 bytes: Header Size (uint64 LE)]
//	  [Header: JSON object, name -> {dtype, shape, data_offsets}]
//	  [Tensor data: raw little-endian bytes, in header order]
//
// Arrays are written as F64. Reading also accepts F32 and widens it.
// An optional "__metadata__" entry carries string key/value pairs.
//
// Example usage:
//
//	params := map[string]*tensor.Array{"w": w.Value(), "b": b.Value()}
//	if err := serialization.SaveFile("model.safetensors", params, nil); err != nil {
//	    log.Fatal(err)
//	}
//
//	loaded, meta, err := serialization.LoadFile("model.safetensors")
package serialization
