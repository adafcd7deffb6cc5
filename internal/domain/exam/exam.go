package exam

// Level is one of the three ruankao qualification levels.
type Level string

const (
	LevelJunior       Level = "JUNIOR"
	LevelIntermediate Level = "INTERMEDIATE"
	LevelSenior       Level = "SENIOR"
)

// Type is a ruankao exam title. Every type belongs to exactly one level.
type Type string

const (
	// Senior
	TypeSystemAnalyst         Type = "SYSTEM_ANALYST"
	TypeSystemArchitect       Type = "SYSTEM_ARCHITECT"
	TypeNetworkPlanner        Type = "NETWORK_PLANNER"
	TypeProjectManager        Type = "PROJECT_MANAGER"
	TypeSystemPlanningManager Type = "SYSTEM_PLANNING_MANAGER"

	// Intermediate
	TypeSystemIntegrationEngineer    Type = "SYSTEM_INTEGRATION_ENGINEER"
	TypeNetworkEngineer              Type = "NETWORK_ENGINEER"
	TypeInfoSystemManagementEngineer Type = "INFORMATION_SYSTEM_MANAGEMENT_ENGINEER"
	TypeSoftwareTester               Type = "SOFTWARE_TESTER"
	TypeDatabaseEngineer             Type = "DATABASE_ENGINEER"
	TypeMultimediaDesigner           Type = "MULTIMEDIA_DESIGNER"
	TypeSoftwareDesigner             Type = "SOFTWARE_DESIGNER"
	TypeInfoSystemSupervisor         Type = "INFORMATION_SYSTEM_SUPERVISOR"
	TypeECommerceDesigner            Type = "E_COMMERCE_DESIGNER"
	TypeInfoSecurityEngineer         Type = "INFORMATION_SECURITY_ENGINEER"
	TypeEmbeddedSystemDesigner       Type = "EMBEDDED_SYSTEM_DESIGNER"
	TypeSoftwareProcessEvaluator     Type = "SOFTWARE_PROCESS_EVALUATOR"
	TypeComputerAidedDesigner        Type = "COMPUTER_AIDED_DESIGNER"
	TypeComputerHardwareEngineer     Type = "COMPUTER_HARDWARE_ENGINEER"
	TypeITSupportEngineer            Type = "INFORMATION_TECHNOLOGY_SUPPORT_ENGINEER"

	// Junior
	TypeProgrammer                 Type = "PROGRAMMER"
	TypeNetworkAdministrator       Type = "NETWORK_ADMINISTRATOR"
	TypeInfoProcessingTechnician   Type = "INFORMATION_PROCESSING_TECHNICIAN"
	TypeInfoSystemOperationManager Type = "INFORMATION_SYSTEM_OPERATION_MANAGER"
	TypeMultimediaProductionTech   Type = "MULTIMEDIA_APPLICATION_DESIGNER"
	TypeECommerceTechnician        Type = "E_COMMERCE_TECHNICIAN"
	TypeWebDesigner                Type = "WEB_DESIGNER"
)

var levelDisplayNames = map[Level]string{
	LevelJunior:       "Junior",
	LevelIntermediate: "Intermediate",
	LevelSenior:       "Senior",
}

var typeDisplayNames = map[Type]string{
	TypeSystemAnalyst:         "System Analyst",
	TypeSystemArchitect:       "System Architect",
	TypeNetworkPlanner:        "Network Planner",
	TypeProjectManager:        "Information Systems Project Manager",
	TypeSystemPlanningManager: "Systems Planning and Management Engineer",

	TypeSystemIntegrationEngineer:    "Systems Integration Project Management Engineer",
	TypeNetworkEngineer:              "Network Engineer",
	TypeInfoSystemManagementEngineer: "Information Systems Management Engineer",
	TypeSoftwareTester:               "Software Evaluation Engineer",
	TypeDatabaseEngineer:             "Database Systems Engineer",
	TypeMultimediaDesigner:           "Multimedia Application Designer",
	TypeSoftwareDesigner:             "Software Designer",
	TypeInfoSystemSupervisor:         "Information Systems Supervisor",
	TypeECommerceDesigner:            "E-Commerce Designer",
	TypeInfoSecurityEngineer:         "Information Security Engineer",
	TypeEmbeddedSystemDesigner:       "Embedded Systems Designer",
	TypeSoftwareProcessEvaluator:     "Software Process Capability Evaluator",
	TypeComputerAidedDesigner:        "Computer-Aided Designer",
	TypeComputerHardwareEngineer:     "Computer Hardware Engineer",
	TypeITSupportEngineer:            "IT Support Engineer",

	TypeProgrammer:                 "Programmer",
	TypeNetworkAdministrator:       "Network Administrator",
	TypeInfoProcessingTechnician:   "Information Processing Technician",
	TypeInfoSystemOperationManager: "Information Systems Operation Manager",
	TypeMultimediaProductionTech:   "Multimedia Production Technician",
	TypeECommerceTechnician:        "E-Commerce Technician",
	TypeWebDesigner:                "Web Designer",
}

// typesByLevel fixes the order types are presented in, senior titles first
// within each level. The tables below are derived from it.
var typesByLevel = map[Level][]Type{
	LevelSenior: {
		TypeProjectManager,
		TypeSystemAnalyst,
		TypeSystemArchitect,
		TypeNetworkPlanner,
		TypeSystemPlanningManager,
	},
	LevelIntermediate: {
		TypeSystemIntegrationEngineer,
		TypeNetworkEngineer,
		TypeInfoSystemManagementEngineer,
		TypeSoftwareTester,
		TypeDatabaseEngineer,
		TypeMultimediaDesigner,
		TypeSoftwareDesigner,
		TypeInfoSystemSupervisor,
		TypeECommerceDesigner,
		TypeInfoSecurityEngineer,
		TypeEmbeddedSystemDesigner,
		TypeSoftwareProcessEvaluator,
		TypeComputerAidedDesigner,
		TypeComputerHardwareEngineer,
		TypeITSupportEngineer,
	},
	LevelJunior: {
		TypeProgrammer,
		TypeNetworkAdministrator,
		TypeInfoProcessingTechnician,
		TypeInfoSystemOperationManager,
		TypeMultimediaProductionTech,
		TypeECommerceTechnician,
		TypeWebDesigner,
	},
}

var defaultTypeForLevel = map[Level]Type{
	LevelSenior:       TypeProjectManager,
	LevelIntermediate: TypeSoftwareDesigner,
	LevelJunior:       TypeProgrammer,
}

var defaultChapterForType = map[Type]string{
	TypeSystemAnalyst:         "System Analysis Knowledge Domain",
	TypeSystemArchitect:       "System Architecture Knowledge Domain",
	TypeNetworkPlanner:        "Network Planning Knowledge Domain",
	TypeProjectManager:        "Project Management Knowledge Domain",
	TypeSystemPlanningManager: "Systems Planning Knowledge Domain",

	TypeSystemIntegrationEngineer:    "Systems Integration Knowledge Domain",
	TypeNetworkEngineer:              "Network Engineering Knowledge Domain",
	TypeInfoSystemManagementEngineer: "Information Systems Management Knowledge Domain",
	TypeSoftwareTester:               "Software Testing Knowledge Domain",
	TypeDatabaseEngineer:             "Database Knowledge Domain",
	TypeMultimediaDesigner:           "Multimedia Design Knowledge Domain",
	TypeSoftwareDesigner:             "Software Design Knowledge Domain",
	TypeInfoSystemSupervisor:         "Information Systems Supervision Knowledge Domain",
	TypeECommerceDesigner:            "E-Commerce Knowledge Domain",
	TypeInfoSecurityEngineer:         "Information Security Knowledge Domain",
	TypeEmbeddedSystemDesigner:       "Embedded Systems Knowledge Domain",
	TypeSoftwareProcessEvaluator:     "Software Process Assessment Knowledge Domain",
	TypeComputerAidedDesigner:        "Computer-Aided Design Knowledge Domain",
	TypeComputerHardwareEngineer:     "Computer Hardware Knowledge Domain",
	TypeITSupportEngineer:            "IT Support Knowledge Domain",

	TypeProgrammer:                 "Programmer Knowledge Domain",
	TypeNetworkAdministrator:       "Network Administration Knowledge Domain",
	TypeInfoProcessingTechnician:   "Information Processing Knowledge Domain",
	TypeInfoSystemOperationManager: "Systems Operation Knowledge Domain",
	TypeMultimediaProductionTech:   "Multimedia Production Knowledge Domain",
	TypeECommerceTechnician:        "E-Commerce Fundamentals Knowledge Domain",
	TypeWebDesigner:                "Web Design Knowledge Domain",
}

// levelByType is the reverse of typesByLevel.
var levelByType = func() map[Type]Level {
	m := make(map[Type]Level)
	for level, types := range typesByLevel {
		for _, t := range types {
			m[t] = level
		}
	}
	return m
}()

// DisplayName returns the human-readable form of the level.
func (l Level) DisplayName() string {
	return levelDisplayNames[l]
}

// DisplayName returns the human-readable form of the exam title.
func (t Type) DisplayName() string {
	return typeDisplayNames[t]
}

// Level returns the qualification level the exam title belongs to.
func (t Type) Level() Level {
	return levelByType[t]
}

// DefaultChapter returns the default knowledge chapter for the exam title.
func (t Type) DefaultChapter() string {
	return defaultChapterForType[t]
}

// Levels lists all levels from senior to junior.
func Levels() []Level {
	return []Level{LevelSenior, LevelIntermediate, LevelJunior}
}

// TypesForLevel lists all exam titles at the given level, in presentation order.
func TypesForLevel(l Level) []Type {
	types := typesByLevel[l]
	out := make([]Type, len(types))
	copy(out, types)
	return out
}

// DefaultTypeForLevel returns the exam title selected by default at a level.
func DefaultTypeForLevel(l Level) Type {
	return defaultTypeForLevel[l]
}

// AllTypes lists every exam title, grouped senior → intermediate → junior.
func AllTypes() []Type {
	var out []Type
	for _, l := range Levels() {
		out = append(out, typesByLevel[l]...)
	}
	return out
}

// Identity is the (level, exam title) pair that scopes questions, chapters
// and progress data.
type Identity struct {
	Level Level
	Type  Type
}

// IdentityOf builds the identity for an exam title using the fixed
// type → level table.
func IdentityOf(t Type) Identity {
	return Identity{Level: t.Level(), Type: t}
}

// IsZero reports whether the identity carries no level and no type.
func (i Identity) IsZero() bool {
	return i.Level == "" && i.Type == ""
}

// String renders the identity as "level/type" using display names.
func (i Identity) String() string {
	return i.Level.DisplayName() + "/" + i.Type.DisplayName()
}
