package views

import (
	"strconv"

	"github.com/petadopt/petadopt-backend/internal/pets"
	"github.com/petadopt/petadopt-backend/pkg/age"
	"github.com/petadopt/petadopt-backend/pkg/enums"

	. "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"
)

type IndexView struct {
	Shell
	Pets []pets.PetDTO
}

// IndexPage lists the pets currently up for adoption.
func IndexPage(v IndexView) Node {
	v.Title = "Welcome"
	return layout(v.Shell,
		H1(Text("Find your new best friend")),
		If(!v.Principal.IsAuthenticated(),
			P(Text("Register or log in to browse dogs and cats by species.")),
		),
		H2(Text("Available pets")),
		petList(v.Pets, v.isAdmin()),
	)
}

// AdminDashboard shows every listing regardless of status.
type AdminDashboard struct {
	Shell
	Pets   []pets.PetDTO
	Counts pets.StatusCounts
}

func AdminDashboardPage(v AdminDashboard) Node {
	v.Title = "Dashboard"
	counts := make([]Node, 0, len(enums.PetStatuses())+1)
	for _, status := range enums.PetStatuses() {
		counts = append(counts, Li(
			Class("count-"+status.String()),
			Strong(Text(status.Label()+": ")),
			Text(strconv.FormatInt(v.Counts[status], 10)),
		))
	}
	counts = append(counts, Li(Strong(Text("Total: ")), Text(strconv.FormatInt(v.Counts.Total(), 10))))

	return layout(v.Shell,
		H1(Text("Admin dashboard")),
		Ul(Class("status-counts"), Group(counts)),
		P(A(Href("/pet/add"), Attr("role", "button"), Text("Add a pet"))),
		H2(Text("All pets")),
		petList(v.Pets, true),
	)
}

// AdopterDashboard shows available listings only.
type AdopterDashboard struct {
	Shell
	Pets []pets.PetDTO
}

func AdopterDashboardPage(v AdopterDashboard) Node {
	v.Title = "Dashboard"
	return layout(v.Shell,
		H1(Text("Welcome, "+v.Principal.Username)),
		H2(Text("Available pets")),
		petList(v.Pets, false),
	)
}

type SpeciesView struct {
	Shell
	Species enums.Species
	Pets    []pets.PetDTO
}

// SpeciesPage lists available pets of one species.
func SpeciesPage(v SpeciesView) Node {
	heading := "Dogs"
	if v.Species == enums.SpeciesCat {
		heading = "Cats"
	}
	v.Title = heading
	return layout(v.Shell,
		H1(Text(heading+" available for adoption")),
		petList(v.Pets, v.isAdmin()),
	)
}

// PetFormValues mirrors the submitted pet form so a rejected form can be
// re-rendered with what the user typed.
type PetFormValues struct {
	Name           string
	Species        string
	Breed          string
	AgeValue       string
	AgeUnit        string
	Gender         string
	SpayedNeutered bool
	Vaccinated     bool
	Description    string
	ImageURL       string
	Status         string
}

// PetFormValuesFrom pre-fills the edit form. Stored ages that cannot be
// parsed leave the age inputs blank.
func PetFormValuesFrom(pet pets.PetDTO) PetFormValues {
	values := PetFormValues{
		Name:           pet.Name,
		Species:        string(pet.Species),
		Breed:          pet.Breed,
		Gender:         pet.Gender,
		SpayedNeutered: pet.SpayedNeutered,
		Vaccinated:     pet.Vaccinated,
		Description:    pet.Description,
		ImageURL:       pet.ImageURL,
		Status:         string(pet.Status),
		AgeUnit:        string(enums.AgeUnitYears),
	}
	if parsed, ok := age.Parse(pet.Age); ok {
		values.AgeValue = strconv.Itoa(parsed.Value)
		values.AgeUnit = string(parsed.Unit)
	}
	return values
}

type PetFormView struct {
	Shell
	Heading    string
	Action     string
	Submit     string
	Error      string
	ShowStatus bool
	Values     PetFormValues
}

func PetFormPage(v PetFormView) Node {
	v.Title = v.Heading
	vals := v.Values

	speciesOptions := []Node{Option(Value(""), Text("Select species"))}
	for _, species := range enums.AllSpecies() {
		speciesOptions = append(speciesOptions, option(string(species), string(species), vals.Species))
	}

	unitOptions := make([]Node, 0, len(enums.AgeUnits()))
	for _, unit := range enums.AgeUnits() {
		unitOptions = append(unitOptions, option(string(unit), string(unit), vals.AgeUnit))
	}

	var statusField Node
	if v.ShowStatus {
		statusOptions := make([]Node, 0, len(enums.PetStatuses()))
		for _, status := range enums.PetStatuses() {
			statusOptions = append(statusOptions, option(string(status), status.Label(), vals.Status))
		}
		statusField = Label(Text("Status"), Select(Name("status"), Group(statusOptions)))
	}

	return layout(v.Shell,
		H1(Text(v.Heading)),
		formError(v.Error),
		Form(Method("post"), Action(v.Action),
			Label(Text("Name"), Input(Type("text"), Name("name"), Value(vals.Name), Required(), Attr("maxlength", "100"))),
			Label(Text("Species"), Select(Name("species"), Required(), Group(speciesOptions))),
			Label(Text("Breed"), Input(Type("text"), Name("breed"), Value(vals.Breed), Attr("maxlength", "100"))),
			Div(Class("grid"),
				Label(Text("Age"), Input(Type("number"), Name("age_value"), Attr("min", "1"), Value(vals.AgeValue))),
				Label(Text("Unit"), Select(Name("age_unit"), Group(unitOptions))),
			),
			Label(Text("Gender"), Select(Name("gender"),
				option("", "Unknown", vals.Gender),
				option("Male", "Male", vals.Gender),
				option("Female", "Female", vals.Gender),
			)),
			checkbox("spayed_neutered", "Spayed/Neutered", vals.SpayedNeutered),
			checkbox("vaccinated", "Vaccinated", vals.Vaccinated),
			Label(Text("Description"), Textarea(Name("description"), Attr("rows", "4"), Text(vals.Description))),
			Label(Text("Image URL"), Input(Type("url"), Name("image_url"), Value(vals.ImageURL), Attr("maxlength", "255"))),
			statusField,
			Button(Type("submit"), Text(v.Submit)),
		),
		P(A(Href("/dashboard"), Text("Back to dashboard"))),
	)
}

func option(value, label, current string) Node {
	return Option(Value(value), If(value == current, Selected()), Text(label))
}

func checkbox(name, label string, checked bool) Node {
	return Label(
		Input(Type("checkbox"), Name(name), Value("on"), If(checked, Checked())),
		Text(" "+label),
	)
}
