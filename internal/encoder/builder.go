package encoder

// Args returns the astcenc argument list (without the binary) for one
// compression:
//
//	-<profile> <src> <dst> <block> -<preset>
//
// e.g. -cl tex0.png tex0.astc 6x6 -medium.
func Args(p Params, src, dst string) []string {
	return []string{
		"-" + string(p.Profile),
		src,
		dst,
		p.BlockSize,
		"-" + string(p.Preset),
	}
}
