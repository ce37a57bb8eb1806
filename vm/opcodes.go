package vm

// Op identifies one IL opcode byte, per spec.md §4.1's opcode taxonomy.
type Op byte

// The full IL instruction set. Values are assigned in taxonomy order;
// they are an implementation detail of this VM, not a wire-compatibility
// promise with any other tbvm-alike image.
const (
	OpJMP Op = iota
	OpCALL
	OpRTN
	OpNXT
	OpNXTLN
	OpFIN
	OpEXIT
	OpRUN
	OpERR
	OpDONE
	OpDONEM
	OpONDONE
	OpXFER
	OpSAV
	OpRSTR

	OpINIT
	OpGETLINE
	OpTSTL
	OpINSRT

	OpXINIT
	OpTST
	OpSCAN
	OpTSTV
	OpTSTN
	OpTSTS
	OpTSTEOL
	OpTSTSOL
	OpADVEOL

	OpLIT
	OpIND
	OpADD
	OpSUB
	OpNEG
	OpMUL
	OpDIV
	OpMOD
	OpPOW
	OpFIX
	OpFLR
	OpCEIL
	OpSGN
	OpABS
	OpATN
	OpCOS
	OpSIN
	OpTAN
	OpEXP
	OpLOG
	OpSQR
	OpDEGRAD
	OpRND
	OpSRND

	OpCMPR
	OpCMPRX

	OpPRS
	OpPRN
	OpSPC
	OpNLINE
	OpADVCRS
	OpINNUM
	OpINVAR

	OpSTORE
	OpDSTORE

	OpDIM
	OpARRY

	OpSTR
	OpHEX
	OpVAL
	OpSTRLEN
	OpASC
	OpCHR
	OpCPY
	OpPOP
	OpUPRLWR
	OpMKS
	OpSBSTR

	OpFOR
	OpSTEP
	OpNXTFOR

	OpLDPRG
	OpSVPRG
	OpLST
	OpLSTX

	OpDMODE
	OpDATANEXT

	opCount
)

// opMeta describes one opcode's fetch-time operand shape (spec.md §4.1):
// a 16-bit label, an unsigned-byte literal, and/or a high-bit-terminated
// immediate string, in that order when more than one is present.
type opMeta struct {
	Name       string
	HasLabel   bool
	HasLiteral bool
	HasString  bool
}

var opTable = [opCount]opMeta{
	OpJMP:    {Name: "JMP", HasLabel: true},
	OpCALL:   {Name: "CALL", HasLabel: true},
	OpRTN:    {Name: "RTN"},
	OpNXT:    {Name: "NXT"},
	OpNXTLN:  {Name: "NXTLN", HasLabel: true},
	OpFIN:    {Name: "FIN"},
	OpEXIT:   {Name: "EXIT"},
	OpRUN:    {Name: "RUN"},
	OpERR:    {Name: "ERR"},
	OpDONE:   {Name: "DONE"},
	OpDONEM:  {Name: "DONEM", HasLiteral: true},
	OpONDONE: {Name: "ONDONE", HasLabel: true},
	OpXFER:   {Name: "XFER"},
	OpSAV:    {Name: "SAV"},
	OpRSTR:   {Name: "RSTR"},

	OpINIT:    {Name: "INIT"},
	OpGETLINE: {Name: "GETLINE"},
	OpTSTL:    {Name: "TSTL", HasLabel: true},
	OpINSRT:   {Name: "INSRT"},

	OpXINIT:  {Name: "XINIT"},
	OpTST:    {Name: "TST", HasLabel: true, HasString: true},
	OpSCAN:   {Name: "SCAN", HasLabel: true, HasString: true},
	OpTSTV:   {Name: "TSTV", HasLabel: true},
	OpTSTN:   {Name: "TSTN", HasLabel: true},
	OpTSTS:   {Name: "TSTS", HasLabel: true},
	OpTSTEOL: {Name: "TSTEOL", HasLabel: true},
	OpTSTSOL: {Name: "TSTSOL", HasLabel: true},
	OpADVEOL: {Name: "ADVEOL"},

	OpLIT:    {Name: "LIT", HasLiteral: true},
	OpIND:    {Name: "IND"},
	OpADD:    {Name: "ADD"},
	OpSUB:    {Name: "SUB"},
	OpNEG:    {Name: "NEG"},
	OpMUL:    {Name: "MUL"},
	OpDIV:    {Name: "DIV"},
	OpMOD:    {Name: "MOD"},
	OpPOW:    {Name: "POW"},
	OpFIX:    {Name: "FIX"},
	OpFLR:    {Name: "FLR"},
	OpCEIL:   {Name: "CEIL"},
	OpSGN:    {Name: "SGN"},
	OpABS:    {Name: "ABS"},
	OpATN:    {Name: "ATN"},
	OpCOS:    {Name: "COS"},
	OpSIN:    {Name: "SIN"},
	OpTAN:    {Name: "TAN"},
	OpEXP:    {Name: "EXP"},
	OpLOG:    {Name: "LOG"},
	OpSQR:    {Name: "SQR"},
	OpDEGRAD: {Name: "DEGRAD", HasLiteral: true},
	OpRND:    {Name: "RND"},
	OpSRND:   {Name: "SRND"},

	OpCMPR:  {Name: "CMPR"},
	OpCMPRX: {Name: "CMPRX", HasLabel: true},

	OpPRS:    {Name: "PRS"},
	OpPRN:    {Name: "PRN"},
	OpSPC:    {Name: "SPC"},
	OpNLINE:  {Name: "NLINE"},
	OpADVCRS: {Name: "ADVCRS", HasLiteral: true},
	OpINNUM:  {Name: "INNUM"},
	OpINVAR:  {Name: "INVAR"},

	OpSTORE:  {Name: "STORE"},
	OpDSTORE: {Name: "DSTORE"},

	OpDIM:  {Name: "DIM"},
	OpARRY: {Name: "ARRY"},

	OpSTR:    {Name: "STR"},
	OpHEX:    {Name: "HEX"},
	OpVAL:    {Name: "VAL"},
	OpSTRLEN: {Name: "STRLEN"},
	OpASC:    {Name: "ASC"},
	OpCHR:    {Name: "CHR"},
	OpCPY:    {Name: "CPY"},
	OpPOP:    {Name: "POP"},
	OpUPRLWR: {Name: "UPRLWR", HasLiteral: true},
	OpMKS:    {Name: "MKS"},
	OpSBSTR:  {Name: "SBSTR", HasLiteral: true},

	OpFOR:    {Name: "FOR"},
	OpSTEP:   {Name: "STEP"},
	OpNXTFOR: {Name: "NXTFOR"},

	OpLDPRG: {Name: "LDPRG"},
	OpSVPRG: {Name: "SVPRG"},
	OpLST:   {Name: "LST"},
	OpLSTX:  {Name: "LSTX"},

	OpDMODE:    {Name: "DMODE", HasLiteral: true},
	OpDATANEXT: {Name: "DATANEXT"},
}

// operands holds the decoded operand(s) of one fetched instruction.
type operands struct {
	Label   uint16
	Literal byte
	Str     []byte
}

type opFunc func(vm *VM, ops operands)

// opImpl is populated by the exec_*.go files' init functions, one entry
// per Op, matching opTable's shape.
var opImpl [opCount]opFunc

func registerOp(op Op, fn opFunc) {
	opImpl[op] = fn
}

// OpMeta exposes an opcode's mnemonic and operand shape to callers outside
// this package, namely the asm assembler and any disassembler.
type OpMeta struct {
	Name       string
	HasLabel   bool
	HasLiteral bool
	HasString  bool
}

// NumOps returns the number of defined opcodes, for callers that want to
// range over every Op value.
func NumOps() int { return int(opCount) }

// Meta returns op's mnemonic and operand shape. It panics on an
// out-of-range Op, mirroring slice-index-out-of-range semantics.
func (op Op) Meta() OpMeta {
	m := opTable[op]
	return OpMeta{Name: m.Name, HasLabel: m.HasLabel, HasLiteral: m.HasLiteral, HasString: m.HasString}
}

// String returns the opcode's assembly mnemonic.
func (op Op) String() string {
	if int(op) >= len(opTable) {
		return "???"
	}
	return opTable[op].Name
}

var opByName map[string]Op

func init() {
	opByName = make(map[string]Op, opCount)
	for i, m := range opTable {
		opByName[m.Name] = Op(i)
	}
}

// LookupOp resolves an assembly mnemonic to its opcode and operand shape.
func LookupOp(name string) (Op, OpMeta, bool) {
	op, ok := opByName[name]
	if !ok {
		return 0, OpMeta{}, false
	}
	return op, op.Meta(), true
}
