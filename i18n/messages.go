package i18n

// Messages is the full set of UI strings for one locale.
type Messages struct {
	Header   HeaderMessages   `yaml:"header"`
	Search   SearchMessages   `yaml:"search"`
	Catalog  CatalogMessages  `yaml:"catalog"`
	Home     HomeMessages     `yaml:"home"`
	Product  ProductMessages  `yaml:"product"`
	Auth     AuthMessages     `yaml:"auth"`
	Review   ReviewMessages   `yaml:"review"`
	NotFound NotFoundMessages `yaml:"notFound"`
}

type HeaderMessages struct {
	Home       string `yaml:"home"`
	Catalog    string `yaml:"catalog"`
	Reviews    string `yaml:"reviews"`
	Contacts   string `yaml:"contacts"`
	Cart       string `yaml:"cart"`
	Search     string `yaml:"search"`
	BrandLabel string `yaml:"brandLabel"`
	Profile    string `yaml:"profile"`
	Language   string `yaml:"language"`
}

type SearchMessages struct {
	Placeholder           string `yaml:"placeholder"`
	Submit                string `yaml:"submit"`
	AriaSearch            string `yaml:"ariaSearch"`
	AriaInput             string `yaml:"ariaInput"`
	ResultsTitle          string `yaml:"resultsTitle"`
	Found                 string `yaml:"found"`
	Result                string `yaml:"result"`
	Results               string `yaml:"results"`
	For                   string `yaml:"for"`
	Searching             string `yaml:"searching"`
	EmptyQuery            string `yaml:"emptyQuery"`
	EmptyQueryDescription string `yaml:"emptyQueryDescription"`
	NoResults             string `yaml:"noResults"`
	NoResultsDescription  string `yaml:"noResultsDescription"`
}

type CatalogMessages struct {
	Title          string `yaml:"title"`
	Newest         string `yaml:"newest"`
	TopRated       string `yaml:"topRated"`
	NoProducts     string `yaml:"noProducts"`
	Previous       string `yaml:"previous"`
	Next           string `yaml:"next"`
	PreviousPage   string `yaml:"previousPage"`
	NextPage       string `yaml:"nextPage"`
	PaginationAria string `yaml:"paginationAria"`
	Showing        string `yaml:"showing"`
	Of             string `yaml:"of"`
	SortLabel      string `yaml:"sortLabel"`
	Product        string `yaml:"product"`
	Products       string `yaml:"products"`
	Page           string `yaml:"page"`
}

type HomeMessages struct {
	PageTitle           string `yaml:"pageTitle"`
	WelcomeTitle        string `yaml:"welcomeTitle"`
	WelcomeDescription  string `yaml:"welcomeDescription"`
	NewestTitle         string `yaml:"newestTitle"`
	NewestDescription   string `yaml:"newestDescription"`
	TopRatedTitle       string `yaml:"topRatedTitle"`
	TopRatedDescription string `yaml:"topRatedDescription"`
	ViewAll             string `yaml:"viewAll"`
	NoProducts          string `yaml:"noProducts"`
}

type ProductMessages struct {
	NoImage    string `yaml:"noImage"`
	InStock    string `yaml:"inStock"`
	OutOfStock string `yaml:"outOfStock"`
	AddToCart  string `yaml:"addToCart"`
}

type AuthMessages struct {
	CreateAccount            string `yaml:"createAccount"`
	CreateAccountDescription string `yaml:"createAccountDescription"`
	Name                     string `yaml:"name"`
	NamePlaceholder          string `yaml:"namePlaceholder"`
	NameMinLength            string `yaml:"nameMinLength"`
	Birth                    string `yaml:"birth"`
	BirthPlaceholder         string `yaml:"birthPlaceholder"`
	BirthRequired            string `yaml:"birthRequired"`
	BirthFormat              string `yaml:"birthFormat"`
	Email                    string `yaml:"email"`
	EmailPlaceholder         string `yaml:"emailPlaceholder"`
	EmailInvalid             string `yaml:"emailInvalid"`
	EmailExists              string `yaml:"emailExists"`
	Password                 string `yaml:"password"`
	PasswordPlaceholder      string `yaml:"passwordPlaceholder"`
	PasswordMinLength        string `yaml:"passwordMinLength"`
	Register                 string `yaml:"register"`
	Registering              string `yaml:"registering"`
	ValidationError          string `yaml:"validationError"`
	RegistrationFailed       string `yaml:"registrationFailed"`
	AlreadyHaveAccount       string `yaml:"alreadyHaveAccount"`
	SignIn                   string `yaml:"signIn"`
	SignInDescription        string `yaml:"signInDescription"`
	SigningIn                string `yaml:"signingIn"`
	PasswordRequired         string `yaml:"passwordRequired"`
	InvalidCredentials       string `yaml:"invalidCredentials"`
	LoginFailed              string `yaml:"loginFailed"`
	DontHaveAccount          string `yaml:"dontHaveAccount"`
	Logout                   string `yaml:"logout"`
}

type ReviewMessages struct {
	Reviews             string `yaml:"reviews"`
	WriteReview         string `yaml:"writeReview"`
	NameLabel           string `yaml:"nameLabel"`
	NamePlaceholder     string `yaml:"namePlaceholder"`
	NameRequired        string `yaml:"nameRequired"`
	RatingLabel         string `yaml:"ratingLabel"`
	StarsRequired       string `yaml:"starsRequired"`
	TextLabel           string `yaml:"textLabel"`
	TextPlaceholder     string `yaml:"textPlaceholder"`
	TextRequired        string `yaml:"textRequired"`
	TextMinLength       string `yaml:"textMinLength"`
	Submit              string `yaml:"submit"`
	Submitting          string `yaml:"submitting"`
	NoReviews           string `yaml:"noReviews"`
	Unauthorized        string `yaml:"unauthorized"`
	ValidationError     string `yaml:"validationError"`
	SubmitError         string `yaml:"submitError"`
	ProductNotFound     string `yaml:"productNotFound"`
	FilterByRating      string `yaml:"filterByRating"`
	All                 string `yaml:"all"`
	Loading             string `yaml:"loading"`
	Review              string `yaml:"review"`
	Page                string `yaml:"page"`
	NoReviewsWithFilter string `yaml:"noReviewsWithFilter"`
}

type NotFoundMessages struct {
	Title         string `yaml:"title"`
	Description   string `yaml:"description"`
	BackToCatalog string `yaml:"backToCatalog"`
}
