package vm

// NumRegisters is the number of general-purpose registers um32 exposes.
const NumRegisters = 8

// Registers is the register file: eight 32-bit slots, directly
// addressable by a 3-bit index. There is no protection and no side
// effect on read or write.
type Registers [NumRegisters]uint32
