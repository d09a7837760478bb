package ccitt

// code is one entry of an ITU-T T.4 Modified Huffman code table: bits is the
// code word, right-justified, length bits long.
type code struct {
	bits uint32
	len  uint8
}

// whiteTerminating holds the run-length codes for white runs 0..63.
var whiteTerminating = [64]code{
	{0x35, 8}, {0x7, 6}, {0x7, 4}, {0x8, 4}, {0xB, 4}, {0xC, 4}, {0xE, 4}, {0xF, 4},
	{0x13, 5}, {0x14, 5}, {0x7, 5}, {0x8, 5}, {0x8, 6}, {0x3, 6}, {0x34, 6}, {0x35, 6},
	{0x2A, 6}, {0x2B, 6}, {0x27, 7}, {0xC, 7}, {0x8, 7}, {0x17, 7}, {0x3, 7}, {0x4, 7},
	{0x28, 7}, {0x2B, 7}, {0x13, 7}, {0x24, 7}, {0x18, 7}, {0x2, 8}, {0x3, 8}, {0x1A, 8},
	{0x1B, 8}, {0x12, 8}, {0x13, 8}, {0x14, 8}, {0x15, 8}, {0x16, 8}, {0x17, 8}, {0x28, 8},
	{0x29, 8}, {0x2A, 8}, {0x2B, 8}, {0x2C, 8}, {0x2D, 8}, {0x4, 8}, {0x5, 8}, {0xA, 8},
	{0xB, 8}, {0x52, 8}, {0x53, 8}, {0x54, 8}, {0x55, 8}, {0x24, 8}, {0x25, 8}, {0x58, 8},
	{0x59, 8}, {0x5A, 8}, {0x5B, 8}, {0x4A, 8}, {0x4B, 8}, {0x32, 8}, {0x33, 8}, {0x34, 8},
}

// whiteMakeup holds makeup codes for white run lengths 64, 128, ..., 1728.
var whiteMakeup = map[int]code{
	64: {0x1B, 5}, 128: {0x12, 5}, 192: {0x17, 6}, 256: {0x37, 7},
	320: {0x36, 8}, 384: {0x37, 8}, 448: {0x64, 8}, 512: {0x65, 8},
	576: {0x68, 8}, 640: {0x67, 8}, 704: {0xCC, 9}, 768: {0xCD, 9},
	832: {0xD2, 9}, 896: {0xD3, 9}, 960: {0xD4, 9}, 1024: {0xD5, 9},
	1088: {0xD6, 9}, 1152: {0xD7, 9}, 1216: {0xD8, 9}, 1280: {0xD9, 9},
	1344: {0xDA, 9}, 1408: {0xDB, 9}, 1472: {0x98, 9}, 1536: {0x99, 9},
	1600: {0x9A, 9}, 1664: {0x18, 6}, 1728: {0x9B, 9},
}

// blackTerminating holds the run-length codes for black runs 0..63.
var blackTerminating = [64]code{
	{0x37, 10}, {0x2, 3}, {0x3, 2}, {0x2, 2}, {0x3, 3}, {0x3, 4}, {0x2, 4}, {0x3, 5},
	{0x5, 6}, {0x4, 6}, {0x4, 7}, {0x5, 7}, {0x7, 7}, {0x4, 8}, {0x7, 8}, {0x18, 9},
	{0x17, 10}, {0x18, 10}, {0x8, 10}, {0x67, 11}, {0x68, 11}, {0x6C, 11}, {0x37, 11}, {0x28, 11},
	{0x17, 11}, {0x18, 11}, {0xCA, 12}, {0xCB, 12}, {0xCC, 12}, {0xCD, 12}, {0x68, 12}, {0x69, 12},
	{0x6A, 12}, {0x6B, 12}, {0xD2, 12}, {0xD3, 12}, {0xD4, 12}, {0xD5, 12}, {0xD6, 12}, {0xD7, 12},
	{0x6C, 12}, {0x6D, 12}, {0xDA, 12}, {0xDB, 12}, {0x54, 12}, {0x55, 12}, {0x56, 12}, {0x57, 12},
	{0x64, 12}, {0x65, 12}, {0x52, 12}, {0x53, 12}, {0x24, 12}, {0x37, 12}, {0x38, 12}, {0x27, 12},
	{0x28, 12}, {0x58, 12}, {0x59, 12}, {0x2B, 12}, {0x2C, 12}, {0x5A, 12}, {0x66, 12}, {0x67, 12},
}

// blackMakeup holds makeup codes for black run lengths 64, 128, ..., 1728.
var blackMakeup = map[int]code{
	64: {0xF, 10}, 128: {0xC8, 12}, 192: {0xC9, 12}, 256: {0x5B, 12},
	320: {0x33, 12}, 384: {0x34, 12}, 448: {0x35, 12}, 512: {0x6C, 13},
	576: {0x6D, 13}, 640: {0x4A, 13}, 704: {0x4B, 13}, 768: {0x4C, 13},
	832: {0x4D, 13}, 896: {0x72, 13}, 960: {0x73, 13}, 1024: {0x74, 13},
	1088: {0x75, 13}, 1152: {0x76, 13}, 1216: {0x77, 13}, 1280: {0x52, 13},
	1344: {0x53, 13}, 1408: {0x54, 13}, 1472: {0x55, 13}, 1536: {0x5A, 13},
	1600: {0x5B, 13}, 1664: {0x64, 13}, 1728: {0x65, 13},
}

// extMakeup holds the extended makeup codes (1792..2560) shared by both
// colors, used to encode run lengths beyond 1728 in multiples of these plus
// a following terminating code.
var extMakeup = map[int]code{
	1792: {0x8, 11}, 1856: {0xC, 11}, 1920: {0xD, 11},
	1984: {0x12, 12}, 2048: {0x13, 12}, 2112: {0x14, 12}, 2176: {0x15, 12},
	2240: {0x16, 12}, 2304: {0x17, 12}, 2368: {0x1C, 12}, 2432: {0x1D, 12},
	2496: {0x1E, 12}, 2560: {0x1F, 12},
}

// eol is the end-of-line code shared by both colors: eleven zero bits
// followed by a one.
var eol = code{0x1, 12}
