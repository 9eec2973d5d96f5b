// Package serialization exports built tensors in the SafeTensors format so
// they can be loaded by numerical codes outside Go.
//
//	Format Structure:
//	  [8 bytes: Header Size (uint64 LE)]
//	  [Header: JSON, tensor name -> {dtype, shape, data_offsets}, plus __metadata__]
//	  [Tensor data: little-endian I64 values, tensors in name order]
//
// The writer records a SHA-256 checksum of the data section under the
// "checksum" metadata key; the reader verifies it when present.
//
// Example usage:
//
//	iso, _ := builder.New().Isotropic(ctx, 3, 2)
//	err := serialization.WriteSafeTensors("delta.safetensors",
//	    map[string]*tensor.Tensor{"isotropic.3": iso},
//	    map[string]string{"dim": "2"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	tensors, meta, err := serialization.ReadSafeTensors("delta.safetensors")
package serialization
